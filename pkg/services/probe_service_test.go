package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
)

func chainIDServer(result string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%q}`, result)
	}))
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		result  string
		wantErr error
	}{
		{"matching chain", "0xaef3", nil},
		{"other chain", "0x3", apperrors.ErrChainMismatch},
		{"garbage", "44787", apperrors.ErrInvalidInput},
	}

	probe := NewProbeService(time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := chainIDServer(tt.result)
			defer server.Close()

			_, err := probe.Probe(context.Background(), server.URL, alfajores)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Probe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProbeUnreachable(t *testing.T) {
	server := chainIDServer("0xaef3")
	url := server.URL
	server.Close()

	_, err := NewProbeService(time.Second).Probe(context.Background(), url, alfajores)
	if !apperrors.IsRetryable(err) {
		t.Errorf("Probe() error = %v, want a retryable network error", err)
	}
}
