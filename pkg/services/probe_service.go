package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/marketconf/internal/jsonrpc"
	apperrors "github.com/amaumene/marketconf/pkg/errors"
	"github.com/amaumene/marketconf/pkg/models"
	log "github.com/sirupsen/logrus"
)

// ProbeResult is the outcome of comparing a node's chain with a configuration
type ProbeResult struct {
	URL        string        `json:"url"`
	Configured int64         `json:"configured_chain_id"`
	Reported   int64         `json:"reported_chain_id"`
	Latency    time.Duration `json:"latency"`
}

// ProbeService asks a node for its chain identifier. It only reads
// eth_chainId and never touches contracts.
type ProbeService struct {
	httpClient *http.Client
}

func NewProbeService(timeout time.Duration) *ProbeService {
	return &ProbeService{httpClient: &http.Client{Timeout: timeout}}
}

// Probe checks that the node at url serves cfg.ChainID.
func (s *ProbeService) Probe(ctx context.Context, url string, cfg *models.BuildConfiguration) (*ProbeResult, error) {
	start := time.Now()

	var hexID string
	if err := jsonrpc.NewClient(url, s.httpClient).Call(ctx, "eth_chainId", nil, &hexID); err != nil {
		return nil, apperrors.NewServiceError("probe", "Probe", fmt.Errorf("%w: %v", apperrors.ErrNetworkOperation, err)).
			WithContext("url", url)
	}

	reported, err := parseQuantity(hexID)
	if err != nil {
		return nil, apperrors.NewServiceError("probe", "Probe", err).WithContext("url", url)
	}

	result := &ProbeResult{
		URL:        url,
		Configured: cfg.ChainID,
		Reported:   reported,
		Latency:    time.Since(start),
	}

	log.WithFields(log.Fields{
		"url":        url,
		"configured": result.Configured,
		"reported":   result.Reported,
		"latency":    result.Latency,
	}).Debug("Probed node chain id")

	if reported != cfg.ChainID {
		return result, fmt.Errorf("%w: node reports %d, configuration targets %d", apperrors.ErrChainMismatch, reported, cfg.ChainID)
	}
	return result, nil
}

// parseQuantity decodes a 0x-prefixed hex quantity.
func parseQuantity(s string) (int64, error) {
	if !strings.HasPrefix(s, "0x") || len(s) < 3 {
		return 0, fmt.Errorf("%w: quantity %q", apperrors.ErrInvalidInput, s)
	}
	v, err := strconv.ParseInt(s[2:], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q: %v", apperrors.ErrInvalidInput, s, err)
	}
	return v, nil
}
