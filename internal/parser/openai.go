package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/pmehta/expenso/internal/model"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds configuration for the remote classifier.
type Config struct {
	APIKey       string
	Model        string
	BaseURL      string
	Temperature  float64
	MaxTokens    int
	Categories   []string
	PaymentModes []string
}

// openAIClassifier implements the Classifier interface over the OpenAI
// chat completions API.
type openAIClassifier struct {
	httpClient   *http.Client
	apiKey       string
	model        string
	baseURL      string
	systemPrompt string
	temperature  float64
	maxTokens    int
}

// NewOpenAIClassifier creates a new remote classifier client.
func NewOpenAIClassifier(cfg Config) (Classifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-3.5-turbo"
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 150
	}

	categories := cfg.Categories
	if len(categories) == 0 {
		categories = []string{"food", "transport", "shopping", "entertainment", "utilities", "healthcare", "education", "travel", "personal", "general"}
	}
	paymentModes := cfg.PaymentModes
	if len(paymentModes) == 0 {
		paymentModes = []string{"cash", "card", "upi", "bank"}
	}

	systemPrompt := fmt.Sprintf(
		"You are an expense parser. Extract expense information from user input and return JSON with: "+
			"amount (number), category (string), description (string), paymentMode (string). "+
			"Categories: %s. Payment modes: %s.",
		strings.Join(categories, ", "), strings.Join(paymentModes, ", "))

	return &openAIClassifier{
		apiKey:       cfg.APIKey,
		model:        model,
		baseURL:      baseURL,
		systemPrompt: systemPrompt,
		temperature:  temperature,
		maxTokens:    maxTokens,
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

// Classify sends the raw text to the remote model and parses the structured
// result. Any transport error, non-2xx status, or malformed body is returned
// as an error so the caller can fall back locally.
func (c *openAIClassifier) Classify(ctx context.Context, text string) (model.Candidate, error) {
	requestBody := map[string]any{
		"model":       c.model,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
		"messages": []map[string]string{
			{"role": "system", "content": c.systemPrompt},
			{"role": "user", "content": text},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return model.Candidate{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return model.Candidate{}, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return model.Candidate{}, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Choices) == 0 {
		return model.Candidate{}, fmt.Errorf("no choices in response")
	}

	return c.parseCandidate(response.Choices[0].Message.Content, text)
}

// parseCandidate extracts the structured candidate from the model's reply.
func (c *openAIClassifier) parseCandidate(content, raw string) (model.Candidate, error) {
	var parsed struct {
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Description string  `json:"description"`
		PaymentMode string  `json:"paymentMode"`
		Date        string  `json:"date,omitempty"`
	}

	content = cleanMarkdownWrapper(content)

	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return model.Candidate{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if math.IsNaN(parsed.Amount) || math.IsInf(parsed.Amount, 0) {
		return model.Candidate{}, fmt.Errorf("amount is not a finite number")
	}

	candidate := model.Candidate{
		Amount:      parsed.Amount,
		Category:    parsed.Category,
		Description: parsed.Description,
		Date:        parsed.Date,
		PaymentMode: parsed.PaymentMode,
	}
	if candidate.Category == "" {
		candidate.Category = model.DefaultCategory
	}
	if candidate.Description == "" {
		candidate.Description = raw
	}
	if candidate.Date == "" {
		candidate.Date = time.Now().Format("2006-01-02")
	}
	if candidate.PaymentMode == "" {
		candidate.PaymentMode = model.DefaultPaymentMode
	}

	return candidate, nil
}

// chatCompletionResponse represents the OpenAI API response structure.
type chatCompletionResponse struct {
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

// cleanMarkdownWrapper strips code fences the model sometimes wraps around
// JSON replies.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx != -1 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}
