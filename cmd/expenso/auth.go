package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmehta/expenso/internal/cli"
	"github.com/pmehta/expenso/internal/common"
	"github.com/pmehta/expenso/internal/config"
	"github.com/pmehta/expenso/internal/identity"
	"github.com/pmehta/expenso/internal/sheets"
)

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Connect your Google account and set up your expense sheet",
		Long: `Auth runs the Google sign-in flow, then finds or creates your personal
expense spreadsheet. Requires onboarding first ('expenso onboard').`,
		RunE: runAuth,
	}
}

func runAuth(cmd *cobra.Command, _ []string) error {
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
	if !profile.HasName() {
		return &common.UserError{
			Err:         common.ErrProfileNotReady,
			UserMessage: "Run 'expenso onboard' first so I know what to call you.",
		}
	}

	identityConfig := config.LoadIdentityConfig()
	token, err := identity.Authenticate(ctx, identityConfig)
	if err != nil {
		var credErr *common.CredentialError
		if errors.As(err, &credErr) && credErr.Reason == common.CredentialAccessDenied {
			// A denial is a normal outcome; the profile stays partial and
			// auth can simply be re-run.
			fmt.Fprintln(os.Stdout, cli.FormatWarning("Google sign-in was declined. Run 'expenso auth' again when ready."))
			return nil
		}
		return err
	}

	claims, err := identity.FetchProfile(ctx, token.AccessToken)
	if err != nil {
		return fmt.Errorf("signed in, but fetching your Google profile failed: %w", err)
	}

	profile.AccessToken = token.AccessToken
	profile.Email = claims.Email
	profile.GoogleID = claims.ID

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return err
	}
	resolver, err := sheets.NewResolver(sheetsConfig, sheets.NewGoogleStore)
	if err != nil {
		return err
	}

	resolution, err := resolver.Resolve(ctx, sheets.Identity{
		AccessToken: token.AccessToken,
		UserName:    profile.Name,
	})
	if err != nil {
		// Keep the credentials so the next auth run can retry resolution
		// without another consent round trip; the profile stays partial.
		if saveErr := store.Save(ctx, profile); saveErr != nil {
			return fmt.Errorf("sheet setup failed (%v) and saving progress also failed: %w", err, saveErr)
		}
		return &common.UserError{
			Err:         err,
			UserMessage: "Signed in, but I couldn't set up your expense sheet. Run 'expenso auth' again to retry.",
		}
	}

	profile.SheetID = resolution.Ref.ID
	profile.SheetURL = resolution.Ref.URL
	if err := store.Save(ctx, profile); err != nil {
		return err
	}

	if resolution.Created {
		fmt.Fprintln(os.Stdout, cli.FormatSuccess("Created your expense sheet: "+resolution.Ref.URL))
	} else {
		fmt.Fprintln(os.Stdout, cli.FormatSuccess("Connected to your existing expense sheet: "+resolution.Ref.URL))
	}
	if resolution.HeaderWarning != nil {
		fmt.Fprintln(os.Stdout, cli.FormatWarning("The header row could not be written; the sheet still works."))
	}

	fmt.Fprintln(os.Stdout, cli.FormatInfo(fmt.Sprintf("You're all set, %s. Run 'expenso chat' to start tracking.", profile.Name)))
	return nil
}
