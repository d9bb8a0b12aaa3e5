package model

import (
	"fmt"
	"math"
	"strconv"
)

// Default values applied to candidates when the parser cannot do better.
const (
	DefaultCategory    = "general"
	DefaultPaymentMode = "cash"
)

// Candidate is a parsed-but-unconfirmed expense awaiting user review.
// At most one candidate is pending per session at any time.
type Candidate struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"` // YYYY-MM-DD
	PaymentMode string  `json:"paymentMode"`
}

// Validate checks the candidate is committable. Parsers may legitimately
// produce amount 0 (meaning "unparseable"); such candidates must never
// reach a commit.
func (c *Candidate) Validate() error {
	if c == nil {
		return fmt.Errorf("no candidate")
	}
	if math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) {
		return fmt.Errorf("amount is not a number")
	}
	if c.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %v", c.Amount)
	}
	return nil
}

// Row renders the candidate as the five-column sheet row
// [Date, Amount, Category, Description, Payment Mode].
func (c Candidate) Row() []string {
	return []string{
		c.Date,
		strconv.FormatFloat(c.Amount, 'f', -1, 64),
		c.Category,
		c.Description,
		c.PaymentMode,
	}
}
