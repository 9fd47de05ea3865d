package advisory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinovahealth/clinicflow/internal/config"
	"github.com/clinovahealth/clinicflow/pkg/metrics"
)

func newTestClient(t *testing.T, cfg config.AdvisoryConfig) *Client {
	t.Helper()
	if cfg.Model == "" {
		cfg.Model = "test-model"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}
	return NewClient(cfg, metrics.NewCollector("test", prometheus.NewRegistry()), zap.NewNop())
}

func modelResponse(text string) any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

func TestSuggestWithoutKeyReturnsPlaceholder(t *testing.T) {
	c := newTestClient(t, config.AdvisoryConfig{})

	s, err := c.Suggest(context.Background(), "fever and chills", 34, "male")
	require.NoError(t, err)
	assert.True(t, s.Placeholder)
	assert.NotEmpty(t, s.Diagnosis)
	assert.Contains(t, s.Reasoning, "fever and chills")
}

func TestSuggestParsesUpstreamJSON(t *testing.T) {
	payload, _ := json.Marshal(map[string]any{
		"diagnosis":             "Acute sinusitis",
		"reasoning":             "Facial pain with purulent discharge",
		"recommended_tests":     []string{"Sinus X-Ray"},
		"recommended_medicines": []string{"Amoxicillin 500mg"},
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		json.NewEncoder(w).Encode(modelResponse(string(payload)))
	}))
	defer srv.Close()

	c := newTestClient(t, config.AdvisoryConfig{APIKey: "test-key", Endpoint: srv.URL})

	s, err := c.Suggest(context.Background(), "facial pain", 40, "female")
	require.NoError(t, err)
	assert.False(t, s.Placeholder)
	assert.Equal(t, "Acute sinusitis", s.Diagnosis)
	assert.Equal(t, []string{"Sinus X-Ray"}, s.RecommendedTests)
	assert.Equal(t, []string{"Amoxicillin 500mg"}, s.RecommendedMedicines)
}

func TestSuggestToleratesCodeFence(t *testing.T) {
	fenced := "```json\n{\"diagnosis\":\"Migraine\",\"reasoning\":\"unilateral throbbing\"}\n```"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(modelResponse(fenced))
	}))
	defer srv.Close()

	c := newTestClient(t, config.AdvisoryConfig{APIKey: "test-key", Endpoint: srv.URL})

	s, err := c.Suggest(context.Background(), "headache", 28, "female")
	require.NoError(t, err)
	assert.Equal(t, "Migraine", s.Diagnosis)
}

func TestSuggestCollapsesUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}},
		{"garbage body", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}},
		{"empty candidates", func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
		}},
		{"unparseable suggestion", func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(modelResponse("I think the patient has a cold."))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := newTestClient(t, config.AdvisoryConfig{APIKey: "test-key", Endpoint: srv.URL})
			_, err := c.Suggest(context.Background(), "cough", 30, "male")
			require.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestSuggestTransportError(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := newTestClient(t, config.AdvisoryConfig{APIKey: "test-key", Endpoint: srv.URL})
	_, err := c.Suggest(context.Background(), "cough", 30, "male")
	require.ErrorIs(t, err, ErrUnavailable)
}
