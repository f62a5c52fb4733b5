package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"medlink-backend/pkg/logger"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// Lookup suggests medicine names for a condition description.
type Lookup interface {
	GetMedicines(ctx context.Context, description string) []string
}

type geminiLookup struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewGeminiLookup builds the Gemini-backed lookup. The result is best
// effort: every failure path yields an empty slice, never an error.
func NewGeminiLookup(apiKey string) Lookup {
	return &geminiLookup{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
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

func (g *geminiLookup) GetMedicines(ctx context.Context, description string) []string {
	prompt := fmt.Sprintf(
		`Given the following condition: %q, return only a JSON array of relevant medicine names. No explanation, no markdown, no code blocks. Example format: ["Medicine1", "Medicine2"]`,
		description)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		logger.Error("Failed to build AI request", map[string]interface{}{"error": err.Error()})
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.endpoint+"?key="+g.apiKey, bytes.NewReader(body))
	if err != nil {
		logger.Error("Failed to build AI request", map[string]interface{}{"error": err.Error()})
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		logger.Error("Failed to ask AI", map[string]interface{}{"error": err.Error()})
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("AI request rejected", map[string]interface{}{"status": resp.StatusCode})
		return nil
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.Error("Failed to decode AI response", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil
	}

	var medicines []string
	text := parsed.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &medicines); err != nil {
		logger.Error("Failed to parse AI response text", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return medicines
}
