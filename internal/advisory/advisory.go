// Package advisory wraps the external AI consultation-suggestion API.
// Suggestions are advisory only: the doctor reviews and edits everything
// before it reaches the chart, and nothing here writes clinical state.
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/clinovahealth/clinicflow/internal/config"
	"github.com/clinovahealth/clinicflow/pkg/metrics"
)

// ErrUnavailable is the only error surfaced to callers. Transport failures,
// bad status codes, and unparseable responses all collapse into it so the
// upstream provider's details never leak into clinic-facing errors.
var ErrUnavailable = errors.New("advisory service unavailable")

// Suggestion is the structured advisory output shown in the doctor's panel.
type Suggestion struct {
	Diagnosis            string   `json:"diagnosis"`
	Reasoning            string   `json:"reasoning"`
	RecommendedTests     []string `json:"recommended_tests"`
	RecommendedMedicines []string `json:"recommended_medicines"`
	// Placeholder marks suggestions produced without an upstream call.
	Placeholder bool `json:"placeholder,omitempty"`
}

type Client struct {
	cfg     config.AdvisoryConfig
	http    *http.Client
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewClient(cfg config.AdvisoryConfig, m *metrics.Collector, log *zap.Logger) *Client {
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: m,
		log:     log,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Suggest asks the upstream model for a differential given the patient's
// presentation. Without an API key it degrades to a deterministic
// placeholder so the consultation flow keeps working in development.
func (c *Client) Suggest(ctx context.Context, symptoms string, age int, gender string) (*Suggestion, error) {
	if c.cfg.APIKey == "" {
		c.metrics.AdvisoryCallsTotal.WithLabelValues("placeholder").Inc()
		return placeholderSuggestion(symptoms), nil
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(symptoms, age, gender)}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding advisory request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.Model, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building advisory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.AdvisoryCallsTotal.WithLabelValues("error").Inc()
		c.log.Warn("advisory call failed", zap.Error(err))
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.AdvisoryCallsTotal.WithLabelValues("error").Inc()
		c.log.Warn("advisory call returned non-200", zap.Int("status", resp.StatusCode))
		return nil, ErrUnavailable
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		c.metrics.AdvisoryCallsTotal.WithLabelValues("error").Inc()
		return nil, ErrUnavailable
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		c.metrics.AdvisoryCallsTotal.WithLabelValues("error").Inc()
		return nil, ErrUnavailable
	}

	suggestion, err := parseSuggestion(gr.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		c.metrics.AdvisoryCallsTotal.WithLabelValues("error").Inc()
		c.log.Warn("advisory response unparseable", zap.Error(err))
		return nil, ErrUnavailable
	}

	c.metrics.AdvisoryCallsTotal.WithLabelValues("ok").Inc()
	return suggestion, nil
}

// MarkStale records a suggestion that arrived after the doctor moved on to a
// different patient and was discarded.
func (c *Client) MarkStale() {
	c.metrics.AdvisoryCallsTotal.WithLabelValues("stale").Inc()
}

func buildPrompt(symptoms string, age int, gender string) string {
	var b strings.Builder
	b.WriteString("You are a clinical decision-support assistant for a general practice clinic.\n")
	fmt.Fprintf(&b, "Patient: age %d, gender %s.\nPresenting symptoms: %s\n\n", age, gender, symptoms)
	b.WriteString("Respond with strict JSON only, no markdown, with keys: ")
	b.WriteString(`"diagnosis" (string), "reasoning" (string), "recommended_tests" (array of strings), "recommended_medicines" (array of strings).`)
	return b.String()
}

// parseSuggestion tolerates models that wrap JSON in a markdown code fence.
func parseSuggestion(text string) (*Suggestion, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, fmt.Errorf("decoding suggestion: %w", err)
	}
	if s.Diagnosis == "" {
		return nil, errors.New("suggestion missing diagnosis")
	}
	return &s, nil
}

func placeholderSuggestion(symptoms string) *Suggestion {
	return &Suggestion{
		Diagnosis:   "Clinical assessment required",
		Reasoning:   fmt.Sprintf("AI advisory is not configured. Reported symptoms: %s. Evaluate per standard protocol.", symptoms),
		Placeholder: true,
	}
}
