package payu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
)

const GrantTypeClientCredentials = "client_credentials"

type tokenForm struct {
	GrantType    string `url:"grant_type"`
	ClientID     string `url:"client_id"`
	ClientSecret string `url:"client_secret"`
}

// OAuthToken obtains an access token and stores it on the client for
// subsequent calls. An empty grantType means client_credentials.
func (c *Client) OAuthToken(ctx context.Context, grantType string) (TokenResponse, error) {
	if grantType == "" {
		grantType = GrantTypeClientCredentials
	}

	form, err := query.Values(tokenForm{
		GrantType:    grantType,
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
	})
	if err != nil {
		return TokenResponse{}, fmt.Errorf("encode token form: %w", err)
	}

	resp, err := c.transport.do(ctx, request{
		op:       "oauth_token",
		method:   http.MethodPost,
		path:     pathOAuthToken,
		form:     form,
		skipAuth: true,
	})
	if err != nil {
		return TokenResponse{}, err
	}

	var out TokenResponse
	if err := decode(resp, &out); err != nil {
		return TokenResponse{}, err
	}
	if out.AccessToken == "" {
		return TokenResponse{}, errors.New("oauth response has no access_token")
	}

	c.SetAccessToken(out.AccessToken)
	return out, nil
}

var (
	tokenRetryDelay     = 30 * time.Second
	defaultTokenRefresh = 5 * time.Minute
)

// KeepTokenFresh fetches a token now and again before each one expires,
// until ctx is done. Failed refreshes are retried and keep the old token.
func (c *Client) KeepTokenFresh(ctx context.Context, grantType string) error {
	for {
		wait := tokenRetryDelay
		token, err := c.OAuthToken(ctx, grantType)
		if err != nil {
			c.transport.logger.WarnContext(ctx, "PayU token refresh failed", slog.String("error", err.Error()))
		} else {
			wait = refreshAfter(token.ExpiresIn)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// refreshAfter leaves a tenth of the token lifetime as margin.
func refreshAfter(expiresIn int) time.Duration {
	if expiresIn <= 0 {
		return defaultTokenRefresh
	}
	return time.Duration(expiresIn) * time.Second * 9 / 10
}
