package services

import (
	"fmt"
	"sync"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
	"github.com/amaumene/marketconf/pkg/models"
	"github.com/amaumene/marketconf/pkg/repository"
	"github.com/amaumene/marketconf/pkg/validation"
	log "github.com/sirupsen/logrus"
)

// Source names where the provider reads its document from: a profile of a
// repository, or a single file when File is set.
type Source struct {
	Repo    repository.Repository
	Profile string
	File    string
}

func (s Source) String() string {
	if s.File != "" {
		return s.File
	}
	if s.Repo == nil {
		return s.Profile
	}
	return s.Repo.Describe() + ":" + s.Profile
}

func (s Source) document() (*models.Document, error) {
	if s.File != "" {
		return repository.ParseFile(s.File)
	}
	if s.Repo == nil {
		return nil, fmt.Errorf("%w: no repository for profile %q", apperrors.ErrInvalidInput, s.Profile)
	}
	return s.Repo.Get(s.Profile)
}

// ProviderService loads one BuildConfiguration and keeps it for the life of
// the process. The first call to Load or Config does the work; its result,
// value or error, is returned to every later caller.
type ProviderService struct {
	source     Source
	validator  *validation.Validator
	overrides  *EnvOverrides
	skipChecks bool

	once sync.Once
	cfg  *models.BuildConfiguration
	err  error
}

// ProviderOption configures a ProviderService
type ProviderOption func(*ProviderService)

// WithEnvOverrides applies framework variables from the environment on top
// of the document.
func WithEnvOverrides(o *EnvOverrides) ProviderOption {
	return func(s *ProviderService) {
		s.overrides = o
	}
}

// WithoutValidation disables load-time validation. The CLI uses it to
// render documents that are known to be broken.
func WithoutValidation() ProviderOption {
	return func(s *ProviderService) {
		s.skipChecks = true
	}
}

func NewProviderService(source Source, validator *validation.Validator, opts ...ProviderOption) *ProviderService {
	if validator == nil {
		validator = validation.New()
	}
	s := &ProviderService{
		source:    source,
		validator: validator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads, builds and validates the configuration once.
func (s *ProviderService) Load() error {
	s.once.Do(func() {
		s.cfg, s.err = s.load()
	})
	return s.err
}

// Config returns a copy of the loaded configuration.
func (s *ProviderService) Config() (*models.BuildConfiguration, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s.cfg.Clone(), nil
}

// Source returns the source the provider was built for.
func (s *ProviderService) Source() Source {
	return s.source
}

func (s *ProviderService) load() (*models.BuildConfiguration, error) {
	logger := log.WithField("source", s.source.String())

	doc, err := s.source.document()
	if err != nil {
		logger.WithError(err).Error("Failed to read configuration document")
		return nil, apperrors.NewServiceError("provider", "Load", err)
	}

	if applied := s.overrides.Apply(doc); len(applied) > 0 {
		logger.WithField("variables", applied).Info("Applied environment overrides")
	}

	cfg := doc.Build()
	if s.skipChecks {
		logger.Warn("Configuration validation disabled")
		return cfg, nil
	}

	if err := s.validator.Validate(cfg); err != nil {
		if ve, ok := apperrors.AsValidationError(err); ok {
			for _, f := range ve.Fields() {
				logger.WithFields(log.Fields{
					"field": f.Field,
					"value": f.Value,
				}).WithError(f.Err).Error("Invalid configuration value")
			}
		}
		return nil, apperrors.NewServiceError("provider", "Load", err).WithContext("source", s.source.String())
	}

	logger.WithFields(log.Fields{
		"chain_id":    cfg.ChainID,
		"image_hosts": len(cfg.AllowedImageHosts),
	}).Info("Configuration loaded")
	return cfg, nil
}
