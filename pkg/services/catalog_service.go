package services

import (
	"fmt"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
	"github.com/amaumene/marketconf/pkg/models"
	"github.com/amaumene/marketconf/pkg/repository"
	"github.com/amaumene/marketconf/pkg/validation"
	log "github.com/sirupsen/logrus"
)

// ProfileReport is the validation outcome of one profile
type ProfileReport struct {
	Name   string                     `json:"name" yaml:"name"`
	Config *models.BuildConfiguration `json:"config,omitempty" yaml:"config,omitempty"`
	Valid  bool                       `json:"valid" yaml:"valid"`
	Errors []string                   `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// CatalogService inspects every profile of a repository, so environment
// specific variants can be compared side by side.
type CatalogService struct {
	repo      repository.Repository
	validator *validation.Validator
}

func NewCatalogService(repo repository.Repository, validator *validation.Validator) *CatalogService {
	if validator == nil {
		validator = validation.New()
	}
	return &CatalogService{repo: repo, validator: validator}
}

// Profiles lists the profile names of the repository.
func (s *CatalogService) Profiles() ([]string, error) {
	names, err := s.repo.List()
	if err != nil {
		return nil, apperrors.NewServiceError("catalog", "Profiles", err)
	}
	return names, nil
}

// Document returns the parsed document of one profile without validating it.
func (s *CatalogService) Document(name string) (*models.Document, error) {
	doc, err := s.repo.Get(name)
	if err != nil {
		return nil, apperrors.NewServiceError("catalog", "Document", err).WithContext("profile", name)
	}
	return doc, nil
}

// Check validates one profile. A profile that cannot be read is reported
// through the returned error; a profile that reads but fails validation
// is reported in the ProfileReport.
func (s *CatalogService) Check(name string) (*ProfileReport, error) {
	doc, err := s.Document(name)
	if err != nil {
		return nil, err
	}

	cfg := doc.Build()
	report := &ProfileReport{Name: name, Config: cfg, Valid: true}

	if err := s.validator.Validate(cfg); err != nil {
		report.Valid = false
		if ve, ok := apperrors.AsValidationError(err); ok {
			report.Errors = ve.Messages()
		} else {
			report.Errors = []string{err.Error()}
		}
	}
	return report, nil
}

// CheckAll validates every profile. Read failures become invalid reports
// so one broken file does not hide the others.
func (s *CatalogService) CheckAll() ([]*ProfileReport, error) {
	names, err := s.Profiles()
	if err != nil {
		return nil, err
	}

	reports := make([]*ProfileReport, 0, len(names))
	invalid := 0
	for _, name := range names {
		report, err := s.Check(name)
		if err != nil {
			report = &ProfileReport{Name: name, Errors: []string{err.Error()}}
		}
		if !report.Valid {
			invalid++
		}
		reports = append(reports, report)
	}

	log.WithFields(log.Fields{
		"source":   s.repo.Describe(),
		"profiles": len(reports),
		"invalid":  invalid,
	}).Info("Checked configuration profiles")
	return reports, nil
}

// Summary renders a one-line description of a report.
func (r *ProfileReport) Summary() string {
	if r.Valid {
		return fmt.Sprintf("%s: ok (chain %d)", r.Name, r.Config.ChainID)
	}
	return fmt.Sprintf("%s: %d problem(s)", r.Name, len(r.Errors))
}
