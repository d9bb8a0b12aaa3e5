package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmehta/expenso/internal/cli"
	"github.com/pmehta/expenso/internal/model"
)

func onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard [name]",
		Short: "Start onboarding and record your name",
		Long: `Onboard records your name, the first step of setup. Run 'expenso auth'
afterwards to connect your Google account.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOnboard,
	}
}

func runOnboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, cleanup, err := getProfileStore()
	if err != nil {
		return err
	}
	defer cleanup()

	prompter := cli.NewPrompter(os.Stdin, os.Stdout)

	var name string
	if len(args) == 1 {
		name = strings.TrimSpace(args[0])
	}
	if name == "" {
		name, err = prompter.PromptName(ctx)
		if err != nil {
			return err
		}
	}

	existing, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if existing != nil && existing.Name == name {
		prompter.Say(fmt.Sprintf("Welcome back, %s!", name))
		return nil
	}

	// Changing the name starts a fresh profile; credentials from a
	// previous identity don't carry over.
	if err := store.Save(ctx, &model.UserProfile{Name: name}); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf("Nice to meet you, %s!", name)))
	prompter.Say("Next step: run 'expenso auth' to connect your Google account.")
	return nil
}
