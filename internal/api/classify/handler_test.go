package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/pkg/formatter"
	"github.com/futig/ticket-classifier/internal/pkg/validator"
	"github.com/futig/ticket-classifier/internal/rules"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	available bool
	result    *entity.TicketClassification
	err       error
	got       []entity.TicketInput
}

func (f *fakeUsecase) Classify(_ context.Context, ticket entity.TicketInput) (*entity.TicketClassification, error) {
	f.got = append(f.got, ticket)
	return f.result, f.err
}

func (f *fakeUsecase) Available() bool {
	return f.available
}

func sampleClassification() *entity.TicketClassification {
	return &entity.TicketClassification{
		Priority:            entity.PriorityP1,
		Urgency:             rules.UrgencyCritical,
		SLAFirstResponse:    "15 minutos",
		SLAAssistance:       "30 minutos",
		SLAResolution:       "1 hora",
		SuggestedCategory:   "Pagos",
		EstimatedResolution: "45 minutos",
		Confidence:          90,
		Justification:       "ok",
		Evidence: []entity.RAGDocument{
			{TicketID: "T-1", Title: "Caída", Category: "Pagos", SolutionSummary: "Reinicio", SimilarityScore: 0.9},
		},
	}
}

func newRouter(uc ClassificationUsecase) http.Handler {
	r := chi.NewRouter()
	h := NewHandler(uc, rules.DefaultClientTable(), validator.NewTicketValidator(1000), formatter.NewFactory())
	RegisterRoutes(r, h)
	return r
}

const ticketBody = `{
	"titulo": "  Pagos rechazados ",
	"descripcion": "Todas las transacciones fallan",
	"cliente_afectado": "Banco del Mañana",
	"porcentaje_afectado": 95,
	"tipo_incidente": "Caída total"
}`

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestClassify_OK(t *testing.T) {
	uc := &fakeUsecase{available: true, result: sampleClassification()}
	rec := do(t, newRouter(uc), http.MethodPost, "/classify", ticketBody)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get(ClassificationIDHeader))
	assert.NoError(t, err)

	var got entity.TicketClassification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *sampleClassification(), got)

	require.Len(t, uc.got, 1)
	assert.Equal(t, "Pagos rechazados", uc.got[0].Title)
	assert.Equal(t, 95, uc.got[0].AffectedPercentage)
}

func TestClassify_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"titulo": `},
		{name: "percentage not integer", body: strings.Replace(ticketBody, "95", "95.5", 1)},
		{name: "percentage out of range", body: strings.Replace(ticketBody, "95", "120", 1)},
		{name: "missing title", body: strings.Replace(ticketBody, "  Pagos rechazados ", " ", 1)},
		{name: "absent title", body: `{"descripcion": "x", "cliente_afectado": "Global", "porcentaje_afectado": 10, "tipo_incidente": "Error"}`},
		{name: "absent percentage", body: `{"titulo": "Pagos", "descripcion": "x", "cliente_afectado": "Global", "tipo_incidente": "Error"}`},
		{name: "null percentage", body: strings.Replace(ticketBody, "95", "null", 1)},
		{name: "absent client and incident type", body: `{"titulo": "Pagos", "descripcion": "x", "porcentaje_afectado": 95}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUsecase{available: true, result: sampleClassification()}
			rec := do(t, newRouter(uc), http.MethodPost, "/classify", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, uc.got)

			var body entity.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Bad Request", body.Error)
		})
	}
}

func TestClassify_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		uc        *fakeUsecase
		want      int
		wantCalls int
	}{
		{
			name: "unavailable before classify",
			uc:   &fakeUsecase{available: false},
			want: http.StatusServiceUnavailable,
		},
		{
			name:      "unavailable from usecase",
			uc:        &fakeUsecase{available: true, err: entity.ErrClassifierUnavailable},
			want:      http.StatusServiceUnavailable,
			wantCalls: 1,
		},
		{
			name:      "classification failed",
			uc:        &fakeUsecase{available: true, err: fmt.Errorf("%w: %w", entity.ErrClassificationFailed, errors.New("timeout"))},
			want:      http.StatusInternalServerError,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newRouter(tt.uc), http.MethodPost, "/classify", ticketBody)
			assert.Equal(t, tt.want, rec.Code)
			assert.Len(t, tt.uc.got, tt.wantCalls)
		})
	}
}

func TestClassifyReport(t *testing.T) {
	uc := &fakeUsecase{available: true, result: sampleClassification()}
	router := newRouter(uc)

	t.Run("markdown by default", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/classify/report", ticketBody)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))

		id := rec.Header().Get(ClassificationIDHeader)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "clasificacion-"+id+".md")
		assert.Contains(t, rec.Body.String(), "| Prioridad | P1 |")
	})

	t.Run("pdf", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/classify/report?format=pdf", ticketBody)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
	})

	t.Run("unsupported format", func(t *testing.T) {
		calls := len(uc.got)
		rec := do(t, router, http.MethodPost, "/classify/report?format=docx", ticketBody)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, uc.got, calls)
	})
}

func TestListClients(t *testing.T) {
	rec := do(t, newRouter(&fakeUsecase{}), http.MethodGet, "/clients", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body entity.ListClientsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Clients, len(rules.DefaultClientTable().Clients()))
	assert.Equal(t, "TechFin Solutions", body.Clients[0].Name)
	assert.Equal(t, rules.StateChurnRisk, body.Clients[0].State)
}

func TestHealth(t *testing.T) {
	rec := do(t, newRouter(&fakeUsecase{available: true}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, newRouter(&fakeUsecase{available: false}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestToTicketInput(t *testing.T) {
	var req ticketRequest
	require.NoError(t, json.Unmarshal([]byte(`{"titulo": "Pagos", "descripcion": "x", "cliente_afectado": "Global", "tipo_incidente": "Error"}`), &req))

	_, err := toTicketInput(req)
	assert.ErrorIs(t, err, entity.ErrMissingField)
	assert.ErrorContains(t, err, "porcentaje_afectado")

	require.NoError(t, json.Unmarshal([]byte(`{"porcentaje_afectado": 0}`), &req))
	ticket, err := toTicketInput(req)
	require.NoError(t, err)
	assert.Equal(t, 0, ticket.AffectedPercentage)
	assert.Equal(t, "Global", ticket.AffectedClient)
}
