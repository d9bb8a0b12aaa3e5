package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmehta/expenso/internal/cli"
	"github.com/pmehta/expenso/internal/common"
	"github.com/pmehta/expenso/internal/config"
	"github.com/pmehta/expenso/internal/gate"
	"github.com/pmehta/expenso/internal/intake"
	"github.com/pmehta/expenso/internal/model"
	"github.com/pmehta/expenso/internal/sheets"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Track expenses conversationally",
		Long: `Chat is the main loop: type an expense in plain language, review the
parsed card, and confirm to append it to your sheet. Type 'exit' to leave.`,
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, cleanup, err := getProfileStore()
	if err != nil {
		return err
	}
	defer cleanup()

	// Screen gating: chat needs a complete profile. A denied request
	// redirects to the screen the user actually needs next.
	screen, profile, err := gate.New(store).Route(ctx, model.ScreenChat)
	if err != nil {
		return err
	}
	if screen != model.ScreenChat {
		return redirectHint(screen)
	}

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return err
	}
	appender, err := sheets.NewAppender(sheetsConfig, sheets.NewGoogleStore)
	if err != nil {
		return err
	}

	prompter := cli.NewPrompter(os.Stdin, os.Stdout)
	session := intake.NewSession(buildParser(), appender, store, prompter)

	interrupts := cli.NewInterruptHandler(os.Stdout)
	ctx = interrupts.HandleInterrupts(ctx)

	fmt.Fprintln(os.Stdout, cli.FormatTitle("Expense Chat"))
	prompter.Say(fmt.Sprintf("Hi %s! Tell me about an expense, like \"Spent 500 on groceries\".", profile.Name))

	for {
		text, err := prompter.ReadExpense(ctx)
		if err != nil {
			if errors.Is(err, cli.ErrInputCancelled) || interrupts.WasInterrupted() {
				return nil
			}
			return err
		}

		switch strings.ToLower(text) {
		case "exit", "quit":
			prompter.Say("Bye! Your expenses are in your sheet.")
			return nil
		}

		if err := submitTurn(ctx, session, prompter, text); err != nil {
			return err
		}
	}
}

// submitTurn runs one submit/confirm cycle. Pipeline-level rejections
// (no amount, busy) notify through the session and don't end the chat.
func submitTurn(ctx context.Context, session *intake.Session, prompter *cli.Prompter, text string) error {
	if err := session.Submit(ctx, text); err != nil {
		if errors.Is(err, common.ErrNoAmount) || errors.Is(err, common.ErrPipelineBusy) {
			return nil
		}
		return err
	}

	pending := session.Pending()
	if pending == nil {
		return nil
	}

	confirmed, err := prompter.ConfirmCandidate(ctx, *pending)
	if err != nil {
		if errors.Is(err, cli.ErrInputCancelled) {
			return nil
		}
		return err
	}

	if !confirmed {
		if err := session.Cancel(ctx); err != nil && !errors.Is(err, common.ErrNothingPending) {
			return err
		}
		return nil
	}

	if err := session.Confirm(ctx); err != nil {
		// The pipeline already told the user and reset itself; the chat
		// keeps going so they can retry.
		if errors.Is(err, common.ErrCommitFailed) || errors.Is(err, common.ErrProfileNotReady) || errors.Is(err, common.ErrNothingPending) {
			return nil
		}
		return err
	}
	return nil
}

func redirectHint(screen model.Screen) error {
	switch screen {
	case model.ScreenOnboarding:
		return &common.UserError{
			Err:         common.ErrProfileNotReady,
			UserMessage: "Let's get you set up first. Run 'expenso onboard'.",
		}
	case model.ScreenAuth:
		return &common.UserError{
			Err:         common.ErrProfileNotReady,
			UserMessage: "Your Google account isn't connected yet. Run 'expenso auth'.",
		}
	default:
		return nil
	}
}
