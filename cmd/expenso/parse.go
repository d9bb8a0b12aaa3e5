package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmehta/expenso/internal/cli"
)

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text>",
		Short: "Parse an expense without committing it",
		Long: `Parse shows how an expense line would be interpreted, without writing
anything to your sheet. Useful for checking the parser's read on a phrase.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("nothing to parse")
	}

	candidate := buildParser().Parse(cmd.Context(), text)

	fmt.Fprintln(os.Stdout, cli.RenderBox("Parsed Expense", cli.CandidateCard(candidate)))

	if candidate.Amount <= 0 {
		fmt.Fprintln(os.Stdout, cli.FormatWarning("No amount detected; this would prompt a retry in chat."))
	}
	return nil
}
