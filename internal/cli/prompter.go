package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pmehta/expenso/internal/model"
)

// Prompter implements the interactive chat surface: expense input,
// confirmation cards, and the onboarding name prompt.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter over the given reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		writer: writer,
		reader: NewNonBlockingReader(reader),
	}
}

// Say prints a single assistant chat line.
func (p *Prompter) Say(message string) {
	fmt.Fprintln(p.writer, InfoStyle.Render(message))
}

// Notify prints a pipeline status line. It satisfies the intake package's
// Notifier interface.
func (p *Prompter) Notify(message string) {
	fmt.Fprintln(p.writer, message)
}

// PromptName asks for the user's name during onboarding, re-prompting
// until a non-blank name is entered.
func (p *Prompter) PromptName(ctx context.Context) (string, error) {
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt("What should I call you?")); err != nil {
			return "", fmt.Errorf("failed to write name prompt: %w", err)
		}

		name, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		if name = strings.TrimSpace(name); name != "" {
			return name, nil
		}

		fmt.Fprintln(p.writer, WarningStyle.Render("A name is required to continue."))
	}
}

// ReadExpense reads one expense line from the chat input.
func (p *Prompter) ReadExpense(ctx context.Context) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt("Add an expense")); err != nil {
		return "", fmt.Errorf("failed to write expense prompt: %w", err)
	}
	return p.reader.ReadLine(ctx)
}

// ConfirmCandidate renders the parsed candidate as a card and asks the
// user to confirm it. Only an explicit yes commits; anything else cancels.
func (p *Prompter) ConfirmCandidate(ctx context.Context, candidate model.Candidate) (bool, error) {
	card := RenderBox("Confirm Expense", CandidateCard(candidate))
	if _, err := fmt.Fprintln(p.writer, card); err != nil {
		return false, fmt.Errorf("failed to write confirmation card: %w", err)
	}

	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt("Add this expense? [y/n]")); err != nil {
			return false, fmt.Errorf("failed to write confirm prompt: %w", err)
		}

		answer, err := p.reader.ReadLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		case "n", "no", "":
			return false, nil
		}

		fmt.Fprintln(p.writer, WarningStyle.Render("Please answer y or n."))
	}
}

// CandidateCard renders the card body, one labeled line per column.
func CandidateCard(candidate model.Candidate) string {
	lines := []string{
		LabelStyle.Render("Amount:") + SuccessStyle.Render(FormatINR(candidate.Amount)),
		LabelStyle.Render("Category:") + candidate.Category,
		LabelStyle.Render("Description:") + candidate.Description,
		LabelStyle.Render("Date:") + candidate.Date,
		LabelStyle.Render("Payment:") + candidate.PaymentMode,
	}
	return strings.Join(lines, "\n")
}
