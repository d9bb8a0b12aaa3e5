package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmehta/expenso/internal/cli"
	"github.com/pmehta/expenso/internal/gate"
	"github.com/pmehta/expenso/internal/model"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show setup progress and the connected sheet",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
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

	out := os.Stdout
	fmt.Fprintln(out, cli.FormatTitle("Expenso Status"))

	switch profile.Completeness() {
	case model.ProfileComplete:
		fmt.Fprintln(out, cli.FormatSuccess("Profile complete"))
		fmt.Fprintf(out, "  Name:  %s\n", profile.Name)
		fmt.Fprintf(out, "  Email: %s\n", profile.Email)
		if profile.SheetURL != "" {
			fmt.Fprintf(out, "  Sheet: %s\n", profile.SheetURL)
		} else {
			fmt.Fprintf(out, "  Sheet: %s\n", profile.SheetID)
		}
	case model.ProfilePartial:
		fmt.Fprintln(out, cli.FormatWarning("Onboarded, Google account not connected"))
		fmt.Fprintf(out, "  Name: %s\n", profile.Name)
	default:
		fmt.Fprintln(out, cli.FormatInfo("Not set up yet"))
	}

	next := gate.CanonicalScreen(profile)
	switch next {
	case model.ScreenOnboarding:
		fmt.Fprintln(out, cli.SubtleStyle.Render("Next: expenso onboard"))
	case model.ScreenAuth:
		fmt.Fprintln(out, cli.SubtleStyle.Render("Next: expenso auth"))
	case model.ScreenChat:
		fmt.Fprintln(out, cli.SubtleStyle.Render("Ready: expenso chat"))
	}

	return nil
}
