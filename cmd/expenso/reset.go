package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmehta/expenso/internal/cli"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the stored profile and start over",
		Long: `Reset clears the locally stored profile: name, Google credentials, and
the sheet binding. The spreadsheet itself is never touched; a later auth
run will find it again by name.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReset(cmd, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func runReset(cmd *cobra.Command, force bool) error {
	ctx := cmd.Context()

	store, cleanup, err := getProfileStore()
	if err != nil {
		return err
	}
	defer cleanup()

	profile, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if profile == nil {
		fmt.Fprintln(os.Stdout, "No profile found. Nothing to reset.")
		return nil
	}

	if !force {
		fmt.Fprintf(os.Stdout, "This will forget the profile for %s.\n", profile.Name)
		fmt.Fprint(os.Stdout, "Are you sure you want to continue? [y/N]: ")

		var response string
		if _, err := fmt.Scanln(&response); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if response != "y" && response != "Y" {
			fmt.Fprintln(os.Stdout, "Reset canceled.")
			return nil
		}
	}

	if err := store.Clear(ctx); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, cli.FormatSuccess("Profile cleared. Run 'expenso onboard' to start again."))
	return nil
}
