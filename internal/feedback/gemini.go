package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrNoAPIKey = errors.New("feedback: missing gemini api key")

// GeminiClient calls the generateContent endpoint of the Gemini API.
type GeminiClient struct {
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
	http      *http.Client
}

func NewGeminiClient(apiKey, model, baseURL string, timeout time.Duration) *GeminiClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiClient{
		apiKey:    apiKey,
		model:     model,
		baseURL:   strings.TrimRight(baseURL, "/"),
		maxTokens: 1024,
		http:      &http.Client{Timeout: timeout},
	}
}

// WithMaxTokens bounds the output size; non-positive values keep the default.
func (c *GeminiClient) WithMaxTokens(n int) *GeminiClient {
	if n > 0 {
		c.maxTokens = n
	}
	return c
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateText sends one prompt and returns the first candidate's text.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	var payload geminiRequest
	payload.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
	payload.GenerationConfig.Temperature = 0.7
	payload.GenerationConfig.MaxOutputTokens = c.maxTokens
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	// the key travels in a header so transport errors, which quote the URL, never carry it
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	// non-2xx: surface the API message when there is one
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e geminiResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != nil {
			return "", fmt.Errorf("gemini error (%d): %s", resp.StatusCode, e.Error.Message)
		}
		return "", fmt.Errorf("gemini http error (%d)", resp.StatusCode)
	}

	var out geminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", ErrMalformed
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrMalformed
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
