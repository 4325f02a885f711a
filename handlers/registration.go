// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/edition-drop/auth"
	"github.com/danielhkuo/edition-drop/cliparse"
	"github.com/danielhkuo/edition-drop/metrics"
	"github.com/danielhkuo/edition-drop/middleware"
	"github.com/danielhkuo/edition-drop/models"
	"github.com/danielhkuo/edition-drop/store"
)

// Client-facing messages
const (
	msgInvalidBody      = "Cuerpo de la solicitud inválido."
	msgMissingFields    = "Correo y número de edición son requeridos."
	msgBadEmail         = "El formato del correo electrónico no es válido."
	msgBadEdition       = "El número de edición debe ser alfanumérico."
	msgFieldTooLong     = "El correo o el número de edición son demasiado largos."
	msgDuplicateEdition = "El número de edición ya está registrado. Por favor, ingrese otro número."
	msgDuplicateEmail   = "El correo ya está registrado."
	msgRegisterFailed   = "Error al registrar usuario."
	msgRegistered       = "Registro exitoso."
	msgListFailed       = "Error al consultar los registros."
)

const (
	maxEmailLen        = 254
	maxEditionLen      = 64
	maxTokenAttempts   = 3
	downloadPathPrefix = "/descargar/"
)

var (
	emailRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	editionRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// RegistrationStore is the persistence the handlers need.
type RegistrationStore interface {
	Create(ctx context.Context, email, edition, token string) (*models.Registration, error)
	Consume(ctx context.Context, token string) (*models.Registration, error)
	FindByToken(ctx context.Context, token string) (*models.Registration, error)
	List(ctx context.Context) ([]models.Registration, error)
}

type RegistrationHandler struct {
	store   RegistrationStore
	cfg     cliparse.Config
	metrics *metrics.Metrics
}

func NewRegistrationHandler(s RegistrationStore, cfg cliparse.Config, m *metrics.Metrics) *RegistrationHandler {
	return &RegistrationHandler{store: s, cfg: cfg, metrics: m}
}

// Register handles POST /registrar
// Validates the email and edition, stores a registration and returns its
// single-use download link
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		h.metrics.RecordRegistration(metrics.OutcomeInvalid)
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	edition := strings.TrimSpace(req.Edition)

	if msg := validateRegistration(email, edition, h.cfg.StrictMode()); msg != "" {
		h.metrics.RecordRegistration(metrics.OutcomeInvalid)
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	var reg *models.Registration
	var err error
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		var token string
		token, err = auth.GenerateDownloadToken()
		if err != nil {
			break
		}
		reg, err = h.store.Create(r.Context(), email, edition, token)
		if !errors.Is(err, store.ErrDuplicateToken) {
			break
		}
		slog.Warn("download token collision, retrying", "attempt", attempt+1)
	}

	switch {
	case errors.Is(err, store.ErrDuplicateEdition):
		h.metrics.RecordRegistration(metrics.OutcomeDuplicateEdition)
		middleware.ErrorResponse(w, http.StatusBadRequest, msgDuplicateEdition)
		return
	case errors.Is(err, store.ErrDuplicateEmail):
		h.metrics.RecordRegistration(metrics.OutcomeDuplicateEmail)
		middleware.ErrorResponse(w, http.StatusBadRequest, msgDuplicateEmail)
		return
	case err != nil:
		slog.Error("failed to create registration", "error", err)
		h.metrics.RecordRegistration(metrics.OutcomeError)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}

	slog.Info("registration created", "registration_id", reg.ID, "edition", reg.Edition)
	h.metrics.RecordRegistration(metrics.OutcomeCreated)

	middleware.JSONResponse(w, http.StatusOK, models.RegisterResponse{
		Message: msgRegistered,
		Link:    h.cfg.BaseURL + downloadPathPrefix + reg.Token,
	})
}

// List handles GET /registros
// Returns every registration, including tokens and download state
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	regs, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("failed to list registrations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgListFailed)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, regs)
}

// validateRegistration returns a client message, or "" when the input is
// acceptable. Strict mode adds the email and edition format checks.
func validateRegistration(email, edition string, strict bool) string {
	if email == "" || edition == "" {
		return msgMissingFields
	}
	if utf8.RuneCountInString(email) > maxEmailLen || utf8.RuneCountInString(edition) > maxEditionLen {
		return msgFieldTooLong
	}
	if !strict {
		return ""
	}
	if !emailRegex.MatchString(email) {
		return msgBadEmail
	}
	if !editionRegex.MatchString(edition) {
		return msgBadEdition
	}
	return ""
}
