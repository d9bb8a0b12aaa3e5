package parser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmehta/expenso/internal/model"
)

func newTestClassifier(t *testing.T, handler http.HandlerFunc) Classifier {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	classifier, err := NewOpenAIClassifier(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return classifier
}

func completionBody(t *testing.T, content string) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

func TestNewOpenAIClassifierRequiresKey(t *testing.T) {
	_, err := NewOpenAIClassifier(Config{})
	assert.Error(t, err)
}

func TestClassifyParsesStructuredReply(t *testing.T) {
	classifier := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		_, _ = w.Write(completionBody(t, `{"amount": 500, "category": "food", "description": "groceries", "paymentMode": "upi"}`))
	})

	candidate, err := classifier.Classify(context.Background(), "Spent 500 on groceries via upi")
	require.NoError(t, err)
	assert.Equal(t, 500.0, candidate.Amount)
	assert.Equal(t, "food", candidate.Category)
	assert.Equal(t, "groceries", candidate.Description)
	assert.Equal(t, "upi", candidate.PaymentMode)
	assert.NotEmpty(t, candidate.Date)
}

func TestClassifyStripsMarkdownFences(t *testing.T) {
	classifier := newTestClassifier(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(completionBody(t, "```json\n{\"amount\": 99, \"category\": \"transport\"}\n```"))
	})

	candidate, err := classifier.Classify(context.Background(), "taxi 99")
	require.NoError(t, err)
	assert.Equal(t, 99.0, candidate.Amount)
	assert.Equal(t, "transport", candidate.Category)
	// Missing fields are filled from the raw input and defaults.
	assert.Equal(t, "taxi 99", candidate.Description)
	assert.Equal(t, model.DefaultPaymentMode, candidate.PaymentMode)
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed envelope",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "empty choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"choices": []}`))
			},
		},
		{
			name: "non-JSON content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(completionBody(t, "sorry, I cannot help with that"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := newTestClassifier(t, tt.handler)
			_, err := classifier.Classify(context.Background(), "Spent 500 on groceries")
			assert.Error(t, err)
		})
	}
}

func TestParserFallsBackWhenRemoteFails(t *testing.T) {
	classifier := newTestClassifier(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	p := New(classifier)
	candidate := p.Parse(context.Background(), "Spent 500 on groceries")
	assert.Equal(t, 500.0, candidate.Amount)
	assert.Equal(t, "food", candidate.Category)
	assert.Equal(t, model.DefaultPaymentMode, candidate.PaymentMode)
}
