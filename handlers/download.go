// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/edition-drop/auth"
	"github.com/danielhkuo/edition-drop/cliparse"
	"github.com/danielhkuo/edition-drop/metrics"
	"github.com/danielhkuo/edition-drop/middleware"
	"github.com/danielhkuo/edition-drop/storage"
	"github.com/danielhkuo/edition-drop/store"
)

const (
	msgInvalidLink     = "Enlace inválido o ya utilizado."
	msgVerifyFailed    = "Error al verificar enlace."
	msgFileUnavailable = "Error al enviar archivo."
)

type DownloadHandler struct {
	store   RegistrationStore
	source  storage.Source
	cfg     cliparse.Config
	metrics *metrics.Metrics
}

func NewDownloadHandler(s RegistrationStore, src storage.Source, cfg cliparse.Config, m *metrics.Metrics) *DownloadHandler {
	return &DownloadHandler{store: s, source: src, cfg: cfg, metrics: m}
}

// Redeem handles GET /descargar/{token}
// Marks the link as used and streams the file as an attachment. A link
// works exactly once; the file is opened before the link is consumed so an
// unavailable file never burns a link.
func (h *DownloadHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if err := auth.ValidateDownloadToken(token); err != nil {
		h.reject(w)
		return
	}

	if r.Method == http.MethodHead {
		h.peek(w, r, token)
		return
	}

	obj, err := h.source.Open(r.Context())
	if err != nil {
		slog.Error("download file unavailable", "source", h.source.Describe(), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgFileUnavailable)
		return
	}
	defer obj.Body.Close()

	reg, err := h.store.Consume(r.Context(), token)
	if errors.Is(err, store.ErrAlreadyUsed) {
		h.reject(w)
		return
	}
	if err != nil {
		slog.Error("failed to consume download token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgVerifyFailed)
		return
	}

	h.writeHeaders(w, obj)
	w.WriteHeader(http.StatusOK)

	n, err := io.Copy(w, obj.Body)
	h.metrics.RecordBytesServed(n)
	if err != nil {
		// The link is already spent; the client has to ask for a new registration.
		slog.Error("download interrupted",
			"registration_id", reg.ID,
			"sent", humanize.Bytes(uint64(n)),
			"error", err,
		)
		return
	}

	h.metrics.RecordRedemption(metrics.OutcomeServed)
	slog.Info("download served",
		"registration_id", reg.ID,
		"edition", reg.Edition,
		"size", humanize.Bytes(uint64(n)),
	)
}

// peek answers HEAD without consuming the link, so link scanners and
// preview bots cannot burn it.
func (h *DownloadHandler) peek(w http.ResponseWriter, r *http.Request, token string) {
	reg, err := h.store.FindByToken(r.Context(), token)
	if errors.Is(err, store.ErrNotFound) || (err == nil && reg.Downloaded) {
		h.reject(w)
		return
	}
	if err != nil {
		slog.Error("failed to look up download token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgVerifyFailed)
		return
	}

	obj, err := storage.Check(r.Context(), h.source)
	if err != nil {
		slog.Error("download file unavailable", "source", h.source.Describe(), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgFileUnavailable)
		return
	}

	h.writeHeaders(w, obj)
	w.WriteHeader(http.StatusOK)
}

func (h *DownloadHandler) reject(w http.ResponseWriter) {
	h.metrics.RecordRedemption(metrics.OutcomeRejected)
	middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidLink)
}

func (h *DownloadHandler) writeHeaders(w http.ResponseWriter, obj *storage.Object) {
	w.Header().Set("Content-Type", obj.ContentType)
	if obj.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": h.cfg.DownloadName,
	}))
	w.Header().Set("Cache-Control", "no-store")
}
