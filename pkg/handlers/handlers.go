package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
	"github.com/amaumene/marketconf/pkg/models"
	"github.com/amaumene/marketconf/pkg/render"
	"github.com/amaumene/marketconf/pkg/services"
	log "github.com/sirupsen/logrus"
)

// Handler contains all HTTP handlers
type Handler struct {
	provider *services.ProviderService
	catalog  *services.CatalogService
	apiKey   string
	timeout  time.Duration
}

func NewHandler(provider *services.ProviderService, catalog *services.CatalogService, apiKey string, timeout time.Duration) *Handler {
	return &Handler{
		provider: provider,
		catalog:  catalog,
		apiKey:   apiKey,
		timeout:  timeout,
	}
}

// Routes builds the router. Every endpoint is read-only.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if h.timeout > 0 {
		r.Use(middleware.Timeout(h.timeout))
	}
	r.Use(authMiddleware(h.apiKey))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "Only GET requests are allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeErrorResponse(w, http.StatusNotFound, "Not found", "The requested endpoint does not exist")
	})

	r.Get("/health", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/config", h.handleConfig)
		r.Get("/profiles", h.handleProfiles)
		r.Get("/profiles/{name}", h.handleProfile)
		r.Get("/profiles/{name}/validate", h.handleValidateProfile)
	})
	return r
}

// ResponseError represents an error response
type ResponseError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ResponseSuccess represents a success response
type ResponseSuccess struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (h *Handler) writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("Failed to encode JSON response")
	}
}

func (h *Handler) writeErrorResponse(w http.ResponseWriter, status int, message, details string) {
	response := ResponseError{
		Error:   message,
		Message: details,
	}
	h.writeJSONResponse(w, status, response)
}

func (h *Handler) writeSuccessResponse(w http.ResponseWriter, message string, data interface{}) {
	response := ResponseSuccess{
		Message: message,
		Data:    data,
	}
	h.writeJSONResponse(w, http.StatusOK, response)
}

// writeConfig answers with the bare rendering when a format is requested,
// and with the JSON envelope otherwise.
func (h *Handler) writeConfig(w http.ResponseWriter, r *http.Request, message string, cfg *models.BuildConfiguration) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		h.writeSuccessResponse(w, message, cfg)
		return
	}

	format, err := render.ParseFormat(raw)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid parameter", err.Error())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if err := render.Write(w, cfg, format); err != nil {
		log.WithError(err).WithField("format", format).Error("Failed to render configuration")
	}
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if err := h.provider.Load(); err != nil {
		status = "degraded"
	}
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": status})
}

// handleConfig returns the configuration the provider loaded at startup
func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.provider.Config()
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Configuration unavailable", err.Error())
		return
	}
	h.writeConfig(w, r, "Configuration retrieved successfully", cfg)
}

// handleProfiles lists the available profiles
func (h *Handler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := h.catalog.Profiles()
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to list profiles", err.Error())
		return
	}
	h.writeSuccessResponse(w, "Profiles retrieved successfully", names)
}

// handleProfile returns one profile, validated
func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	name, err := validateProfileName(chi.URLParam(r, "name"))
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid parameter", err.Error())
		return
	}

	report, err := h.catalog.Check(name)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	if !report.Valid {
		h.writeJSONResponse(w, http.StatusUnprocessableEntity, report)
		return
	}
	h.writeConfig(w, r, "Profile retrieved successfully", report.Config)
}

// handleValidateProfile returns the validation report of one profile
func (h *Handler) handleValidateProfile(w http.ResponseWriter, r *http.Request) {
	name, err := validateProfileName(chi.URLParam(r, "name"))
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid parameter", err.Error())
		return
	}

	report, err := h.catalog.Check(name)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}

	status := http.StatusOK
	if !report.Valid {
		status = http.StatusUnprocessableEntity
	}
	h.writeJSONResponse(w, status, report)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	if apperrors.IsNotFound(err) {
		h.writeErrorResponse(w, http.StatusNotFound, "Profile not found", err.Error())
		return
	}
	h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to read profile", err.Error())
}
