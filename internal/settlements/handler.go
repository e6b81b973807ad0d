package settlements

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/esculape1/bizbook/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSettlementRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	settlement, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create settlement", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, settlement)
}

func (h *Handler) ListByInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := strconv.ParseInt(r.URL.Query().Get("invoice_id"), 10, 64)
	if err != nil || invoiceID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invoice_id query parameter is required")
		return
	}
	list, err := h.service.ListByInvoice(r.Context(), invoiceID)
	if err != nil {
		h.respondError(w, "list settlements", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"settlements": list})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, ErrInvoiceNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "invoice not found")
	case errors.Is(err, ErrInvoiceCancelled):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrOverpayment):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable", err.Error())
	case errors.As(err, &validationErrs):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
