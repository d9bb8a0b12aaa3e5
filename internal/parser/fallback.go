package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pmehta/expenso/internal/model"
)

// amountPattern matches the first integer or two-decimal amount in the input.
var amountPattern = regexp.MustCompile(`\d+(?:\.\d{2})?`)

// categoryKeywords maps each category to its trigger keywords. Tables are
// scanned in the order of categoryOrder; the first category with a matching
// keyword wins.
var categoryKeywords = map[string][]string{
	"food":          {"food", "restaurant", "groceries", "lunch", "dinner", "breakfast"},
	"transport":     {"fuel", "gas", "taxi", "uber", "bus", "train"},
	"shopping":      {"shopping", "clothes", "shoes", "electronics"},
	"entertainment": {"movie", "game", "entertainment", "fun"},
	"utilities":     {"electricity", "water", "internet", "phone"},
	"healthcare":    {"doctor", "medicine", "hospital", "clinic"},
}

var categoryOrder = []string{"food", "transport", "shopping", "entertainment", "utilities", "healthcare"}

// parseLocal is the deterministic heuristic used when the remote classifier
// is unavailable. Amount and category are best effort; the payment mode is
// always "cash" on this path.
func parseLocal(raw string) model.Candidate {
	amount := 0.0
	if match := amountPattern.FindString(raw); match != "" {
		if parsed, err := strconv.ParseFloat(match, 64); err == nil {
			amount = parsed
		}
	}

	category := model.DefaultCategory
	lowered := strings.ToLower(raw)
	for _, name := range categoryOrder {
		if containsAny(lowered, categoryKeywords[name]) {
			category = name
			break
		}
	}

	return model.Candidate{
		Amount:      amount,
		Category:    category,
		Description: raw,
		Date:        time.Now().Format("2006-01-02"),
		PaymentMode: model.DefaultPaymentMode,
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
