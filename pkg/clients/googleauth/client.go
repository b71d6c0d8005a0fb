package googleauth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrInvalidToken indicates the ID token was rejected by Google or does not
// belong to this application.
var ErrInvalidToken = errors.New("invalid google id token")

// Verifier validates Google sign-in ID tokens and returns the asserted identity.
type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

// Identity is the subset of the tokeninfo claims the application cares about.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Client is a resty-backed Verifier calling Google's OAuth2 tokeninfo endpoint.
type Client struct {
	httpClient *resty.Client
	clientID   string
}

// NewClient builds a tokeninfo verifier bound to the given OAuth client ID.
func NewClient(clientID string) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL("https://oauth2.googleapis.com").
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	return &Client{
		httpClient: restyClient,
		clientID:   clientID,
	}
}

// tokenInfo mirrors the fields returned by the tokeninfo endpoint. Numeric
// claims arrive as strings.
type tokenInfo struct {
	Aud     string `json:"aud"`
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Expires string `json:"exp"`

	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// VerifyIDToken asks Google to decode the ID token and checks that it was
// issued for this application and has not expired.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, ErrInvalidToken
	}

	info := new(tokenInfo)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("id_token", idToken).
		SetResult(info).
		SetError(info).
		Get("/tokeninfo")
	if err != nil {
		return nil, fmt.Errorf("call tokeninfo endpoint: %w", err)
	}

	if resp.IsError() || info.Error != "" {
		reason := info.ErrorDescription
		if reason == "" {
			reason = info.Error
		}
		if reason == "" {
			reason = resp.Status()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, reason)
	}

	if info.Aud != c.clientID {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}

	if exp, err := strconv.ParseInt(info.Expires, 10, 64); err != nil || time.Now().Unix() >= exp {
		return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}

	return &Identity{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
	}, nil
}
