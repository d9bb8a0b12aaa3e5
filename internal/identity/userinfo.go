package identity

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Profile holds the identity claims fetched after authentication.
type Profile struct {
	Email string
	ID    string
	Name  string
}

// FetchProfile exchanges an access token for the user's identity claims.
func FetchProfile(ctx context.Context, accessToken string, opts ...option.ClientOption) (*Profile, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	clientOpts := append([]option.ClientOption{option.WithTokenSource(tokenSource)}, opts...)

	svc, err := goauth2.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return &Profile{
		Email: info.Email,
		ID:    info.Id,
		Name:  info.Name,
	}, nil
}
