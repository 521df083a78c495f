package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/pkg/logger"
	"github.com/futig/ticket-classifier/internal/pkg/response"
	"github.com/futig/ticket-classifier/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	maxRequestBodySize = 1 << 20

	ClassificationIDHeader = "X-Classification-ID"
)

type Handler struct {
	usecase    ClassificationUsecase
	clients    ClientDirectory
	validator  *validator.Validator
	formatters FormatterFactory
}

func NewHandler(
	usecase ClassificationUsecase,
	clients ClientDirectory,
	validator *validator.Validator,
	formatters FormatterFactory,
) *Handler {
	return &Handler{
		usecase:    usecase,
		clients:    clients,
		validator:  validator,
		formatters: formatters,
	}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.usecase == nil || !h.usecase.Available() {
		response.JSON(w, http.StatusServiceUnavailable, entity.HealthResponse{
			Status: "unavailable",
			Detail: "Servicio no disponible: El clasificador no pudo inicializarse.",
		})
		return
	}

	response.Success(w, entity.HealthResponse{Status: "ok"})
}

// ListClients handles GET /clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListClients")

	clients := toClientSummaries(h.clients.Clients())
	ctxzap.Debug(ctx, "clients listed", zap.Int("count", len(clients)))

	response.Success(w, entity.ListClientsResponse{Clients: clients})
}

// Classify handles POST /classify
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Classify")

	ticket, ok := h.decodeTicket(ctx, w, r)
	if !ok {
		return
	}

	id, classification, err := h.classify(ctx, w, ticket)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "classification returned", zap.String("classification_id", id))
	response.Success(w, classification)
}

// ClassifyReport handles POST /classify/report?format=markdown|pdf
func (h *Handler) ClassifyReport(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ClassifyReport")

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}
	if !format.IsValid() {
		h.respondError(ctx, w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q (allowed: markdown, pdf)", format), nil)
		return
	}

	f, err := h.formatters.Create(format)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "unsupported format", err)
		return
	}

	ticket, ok := h.decodeTicket(ctx, w, r)
	if !ok {
		return
	}

	id, classification, err := h.classify(ctx, w, ticket)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	data, err := f.Format(toReport(id, ticket, classification))
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to render report", err)
		return
	}

	ctxzap.Info(ctx, "classification report rendered",
		zap.String("format", string(format)),
		zap.Int("size", len(data)),
	)
	response.Attachment(w, f.ContentType(), "clasificacion-"+id+f.FileExtension(), data)
}

func (h *Handler) decodeTicket(ctx context.Context, w http.ResponseWriter, r *http.Request) (entity.TicketInput, bool) {
	var req ticketRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return entity.TicketInput{}, false
	}

	ticket, err := toTicketInput(req)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return ticket, false
	}

	validator.NormalizeTicketInput(&ticket)
	if err := h.validator.ValidateTicketInput(&ticket); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return ticket, false
	}

	return ticket, true
}

// classify tags the request with a fresh classification id and runs the pipeline
func (h *Handler) classify(ctx context.Context, w http.ResponseWriter, ticket entity.TicketInput) (
	string, *entity.TicketClassification, error,
) {
	if h.usecase == nil || !h.usecase.Available() {
		return "", nil, entity.ErrClassifierUnavailable
	}

	id := uuid.NewString()
	ctx = logger.WithClassificationID(ctx, id)
	w.Header().Set(ClassificationIDHeader, id)

	classification, err := h.usecase.Classify(ctx, ticket)
	if err != nil {
		return id, nil, err
	}

	return id, classification, nil
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Error(ctx, message)
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrClassifierUnavailable) {
		h.respondError(ctx, w, http.StatusServiceUnavailable, "Clasificador no disponible.", err)
	} else if errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "Error interno de clasificación: "+err.Error(), err)
	}
}
