// Package identity handles interactive Google token acquisition and the
// post-auth userinfo fetch.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	goauth2 "google.golang.org/api/oauth2/v2"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/pmehta/expenso/internal/common"
)

// Scopes requested during interactive authentication. Spreadsheet access
// for appends, read-only Drive for the find step, and userinfo for the
// identity claims.
var Scopes = []string{
	sheetsapi.SpreadsheetsScope,
	drive.DriveReadonlyScope,
	goauth2.UserinfoEmailScope,
	goauth2.UserinfoProfileScope,
}

// Config holds OAuth2 configuration for the interactive flow.
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackPort int
	Timeout      time.Duration
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: google OAuth client id and secret are required", common.ErrMissingConfig)
	}
	return nil
}

// Authenticate performs the OAuth2 flow interactively: it starts a local
// callback server, prints the consent URL, and exchanges the returned code
// for a token. Denials and provider errors come back as *common.CredentialError
// with the specific sub-reason so the caller can reset to a retryable state.
func Authenticate(ctx context.Context, config Config) (*oauth2.Token, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	port := config.CallbackPort
	if port == 0 {
		port = 8080
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", port),
		Scopes:       Scopes,
	}

	state := uuid.NewString()
	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", callbackHandler(state, codeChan, errorChan))
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errorChan <- fmt.Errorf("failed to start callback server: %w", err)
		}
	}()

	authURL := oauthConfig.AuthCodeURL(state)

	slog.Info("🔐 Google authentication required")
	slog.Info("Please visit this URL to authenticate", "url", authURL)
	slog.Info("Waiting for authentication...")

	var authCode string
	select {
	case authCode = <-codeChan:
		slog.Info("Received authorization code")
	case err := <-errorChan:
		_ = server.Shutdown(ctx)
		return nil, err
	case <-time.After(timeout):
		_ = server.Shutdown(ctx)
		return nil, &common.CredentialError{
			Reason: common.CredentialOther,
			Err:    fmt.Errorf("authentication timeout - no response received within %s", timeout),
		}
	case <-ctx.Done():
		_ = server.Shutdown(context.Background())
		return nil, ctx.Err()
	}

	if err := server.Shutdown(ctx); err != nil {
		slog.Warn("Error shutting down callback server", "error", err)
	}

	token, err := oauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return nil, common.NewCredentialError("other", fmt.Errorf("failed to exchange authorization code: %w", err))
	}

	return token, nil
}

// callbackHandler turns the OAuth redirect into either a code or a
// CredentialError carrying the provider's error code.
func callbackHandler(state string, codeChan chan<- string, errorChan chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if errCode := query.Get("error"); errCode != "" {
			errorChan <- common.NewCredentialError(errCode, fmt.Errorf("provider returned %q", errCode))
			writeResultPage(w, "Authentication Failed", "Permission was not granted. You can close this window and try again.")
			return
		}

		if query.Get("state") != state {
			errorChan <- common.NewCredentialError("invalid_request", fmt.Errorf("state mismatch"))
			writeResultPage(w, "Authentication Failed", "Unexpected response. You can close this window and try again.")
			return
		}

		code := query.Get("code")
		if code == "" {
			errorChan <- common.NewCredentialError("invalid_request", fmt.Errorf("no authorization code received"))
			writeResultPage(w, "Authentication Failed", "No authorization code received. Please try again.")
			return
		}

		codeChan <- code
		writeResultPage(w, "Authentication Successful!", "You can close this window and return to the terminal.")
	}
}

func writeResultPage(w http.ResponseWriter, title, body string) {
	_, _ = fmt.Fprintf(w, `<html><body>
		<h1>%s</h1>
		<p>%s</p>
		<script>window.setTimeout(function(){window.close();}, 3000);</script>
	</body></html>`, title, body)
}
