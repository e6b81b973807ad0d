package reports

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/esculape1/bizbook/internal/platform/httpx"
	"github.com/esculape1/bizbook/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	money   *shared.MoneyFormatter
}

func NewHandler(logger *slog.Logger, service *Service, money *shared.MoneyFormatter) *Handler {
	return &Handler{logger: logger, service: service, money: money}
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	report, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.respondError(w, "generate report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// ExportCSV runs the same aggregation and streams it as a CSV file.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	report, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.respondError(w, "export report", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report-`+req.DateFrom.Format("2006-01-02")+`-`+req.DateTo.Format("2006-01-02")+`.csv"`)
	if err := WriteCSV(w, report, h.money); err != nil {
		h.logger.Error("write report csv", slog.Any("error", err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, ErrInvalidRange), errors.Is(err, ErrInvalidClientFilter):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.As(err, &validationErrs):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
