package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/ticket-classifier/internal/config"
	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testHTTPConfig = config.HTTPClientConfig{
	RequestTimeout:        5 * time.Second,
	ConnTimeout:           time.Second,
	ResponseHeaderTimeout: 5 * time.Second,
}

var testLLMConfig = config.LLMConfig{
	Provider:  config.ProviderOpenAI,
	Model:     "gpt-4o-mini",
	MaxTokens: 512,
}

const classificationJSON = `{"prioridad":"P2","urgencia":"Alta","sla_primera_respuesta":"30 minutos (Horario Laboral)","sla_asistencia":"1 hora (Horario Laboral)","sla_solucion":"4 horas","categoria_sugerida":"Pagos","tiempo_estimado_resolucion":"2 horas","nivel_confianza":80,"justificacion_modelo":"ok"}`

func newOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIConnector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conn, err := NewOpenAIConnector(config.OpenAIConfig{
		HTTPClientConfig: testHTTPConfig,
		APIKey:           "sk-test",
		BaseURL:          srv.URL + "/v1",
	}, testLLMConfig, zap.NewNop())
	require.NoError(t, err)
	return conn
}

func newAnthropic(t *testing.T, handler http.HandlerFunc) *AnthropicConnector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := testLLMConfig
	cfg.Provider = config.ProviderAnthropic
	cfg.Model = "claude-sonnet-4-5"

	conn, err := NewAnthropicConnector(config.AnthropicConfig{
		HTTPClientConfig: testHTTPConfig,
		APIKey:           "sk-ant-test",
		BaseURL:          srv.URL + "/",
	}, cfg, zap.NewNop())
	require.NoError(t, err)
	return conn
}

func TestOpenAIConnector_Complete(t *testing.T) {
	conn := newOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "PROMPT", req.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": classificationJSON},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 100, "completion_tokens": 40, "total_tokens": 140},
		})
	})

	out, err := conn.Complete(context.Background(), "PROMPT")
	require.NoError(t, err)
	assert.JSONEq(t, classificationJSON, out)
	assert.Equal(t, config.ProviderOpenAI, conn.Provider())
	assert.Equal(t, "gpt-4o-mini", conn.Model())
}

func TestOpenAIConnector_Errors(t *testing.T) {
	t.Run("server error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		conn := newOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
		})

		_, err := conn.Complete(context.Background(), "PROMPT")
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("no choices", func(t *testing.T) {
		conn := newOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
		})

		_, err := conn.Complete(context.Background(), "PROMPT")
		assert.ErrorIs(t, err, entity.ErrEmptyModelResponse)
	})
}

func TestAnthropicConnector_Complete(t *testing.T) {
	conn := newAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))

		var req struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-sonnet-4-5", req.Model)
		assert.Equal(t, 512, req.MaxTokens)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "msg_1",
			"type":  "message",
			"role":  "assistant",
			"model": "claude-sonnet-4-5",
			"content": []map[string]any{
				{"type": "text", "text": "```json\n" + classificationJSON + "\n```"},
			},
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 100, "output_tokens": 40},
		})
	})

	out, err := conn.Complete(context.Background(), "PROMPT")
	require.NoError(t, err)
	assert.JSONEq(t, classificationJSON, out)
}

func TestAnthropicConnector_ServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	conn := newAnthropic(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	})

	_, err := conn.Complete(context.Background(), "PROMPT")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestConstructors_RequireKey(t *testing.T) {
	_, err := NewOpenAIConnector(config.OpenAIConfig{}, testLLMConfig, zap.NewNop())
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewAnthropicConnector(config.AnthropicConfig{}, testLLMConfig, zap.NewNop())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestTrimCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, trimCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, trimCodeFence("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, trimCodeFence(`  {"a":1} `))
}

func TestMockConnector(t *testing.T) {
	m := NewMockConnector(zap.NewNop())
	ctx := context.Background()

	t.Run("without evidence", func(t *testing.T) {
		out, err := m.Complete(ctx, "--- TICKET NUEVO ---\nAfectación: 95%\n")
		require.NoError(t, err)

		res := schema.Validate(out)
		require.True(t, res.OK, res.Errors)
		assert.Equal(t, entity.PriorityP1, res.Classification.Priority)
		assert.Equal(t, "1 hora", res.Classification.EstimatedResolution)
		assert.NotContains(t, out, "documentos_rag_usados")
	})

	t.Run("with evidence", func(t *testing.T) {
		prompt := "Afectación: 30%\n" +
			"- ID: T-1 (Similitud: 0.90)\n" +
			"  Título: x\n" +
			"  Categoría: Pagos\n" +
			"  Solución Histórica: Reinicio (Tiempo de resolución histórico: 45 minutos)\n"

		out, err := m.Complete(ctx, prompt)
		require.NoError(t, err)

		res := schema.Validate(out)
		require.True(t, res.OK, res.Errors)
		assert.Equal(t, entity.PriorityP3, res.Classification.Priority)
		assert.Equal(t, "Pagos", res.Classification.SuggestedCategory)
		assert.Equal(t, "45 minutos", res.Classification.EstimatedResolution)
	})
}
