package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AlvesGus/finbot/internal/model"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// groqExtractor is the fallback provider adapter, talking to Groq's
// OpenAI-compatible chat completions endpoint.
type groqExtractor struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
}

// NewGroq creates the Groq-backed extractor.
func NewGroq(apiKey string, cfg Config) (Extractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "llama-3.1-70b-versatile"
	}

	return &groqExtractor{
		apiKey:      apiKey,
		model:       modelName,
		temperature: cfg.Temperature,
		baseURL:     defaultGroqBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// Extract submits the statement as a single user message and parses the
// first completion choice.
func (g *groqExtractor) Extract(ctx context.Context, text string) (*model.Movement, error) {
	requestBody := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": groqPrompt(text),
			},
		},
		"temperature": g.temperature,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, wrapProviderError(fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, wrapProviderError(fmt.Errorf("groq API error (status %d): %s", resp.StatusCode, string(body)))
	}

	var response groqResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// An empty choice list is treated as an empty answer, not a failure.
	content := ""
	if len(response.Choices) > 0 {
		content = response.Choices[0].Message.Content
	}

	return extractJSON(content), nil
}

// groqPrompt carries the same schema as the primary prompt but with the
// fallback provider's label set; no worked example is supplied.
func groqPrompt(text string) string {
	return fmt.Sprintf(`Analise a frase abaixo e retorne APENAS um JSON puro no formato:
{
  "tMovimentacao": "Entrada" | "Saida" | "Investimento",
  "valorMovimentacao": número,
  "local": "onde ocorreu",
  "data": "DD/MM/YYYY",
  "tipo": "Alimentação" | "Transporte" | "Lazer" | "Outros"
}

Frase: "%s"
`, text)
}

// groqResponse represents the Groq chat completions response structure.
type groqResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
