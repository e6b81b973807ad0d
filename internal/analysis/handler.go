package analysis

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/esculape1/bizbook/internal/platform/httpx"
	"github.com/esculape1/bizbook/internal/reports"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	result, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.respondError(w, "analyze", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, ErrDisabled):
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", err.Error())
	case errors.Is(err, reports.ErrInvalidRange):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.As(err, &validationErrs):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "analysis provider request failed")
	}
}
