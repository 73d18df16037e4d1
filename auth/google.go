package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// AuthCodeURL builds the Google consent page URL the user is sent to.
// The state param is echoed back on the callback and must be checked there.
func (s *Service) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange swaps the authorization code from the OAuth callback for a token.
func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchanging code: %s", ErrBadCreds, err)
	}

	return token, nil
}

// FetchUser retrieves the Google profile backing the *oauth2.Token.
func (s *Service) FetchUser(ctx context.Context, token *oauth2.Token) (*goauth2.Userinfo, error) {
	service, err := goauth2.NewService(ctx, option.WithTokenSource(s.config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	user, err := service.Userinfo.Get().Do()
	if err != nil {
		return nil, err
	}

	return user, nil
}
