package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"TamilFM/model"
)

// Credential is what a successful password exchange yields.
type Credential struct {
	AccessToken string
	Identity    model.Identity
}

type passwordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ExchangeCredentials trades an email/password pair for an access token.
// Rejected credentials map to model.ErrAuth with the backend's description.
func (c *Client) ExchangeCredentials(ctx context.Context, email, password string) (Credential, error) {
	body, err := json.Marshal(passwordGrant{Email: email, Password: password})
	if err != nil {
		return Credential{}, fmt.Errorf("gateway: %w", err)
	}

	url := c.baseURL + "/auth/v1/token?grant_type=password"
	req, err := c.newRequest(ctx, http.MethodPost, url, "", bytes.NewReader(body))
	if err != nil {
		return Credential{}, err
	}

	data, err := c.do(req)
	if err != nil {
		return Credential{}, authFailure(err)
	}

	var out struct {
		AccessToken string   `json:"access_token"`
		User        authUser `json:"user"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return Credential{}, fmt.Errorf("gateway: decode token response: %w", err)
	}
	if out.AccessToken == "" {
		return Credential{}, fmt.Errorf("gateway: %w: empty access token", model.ErrAuth)
	}

	return Credential{
		AccessToken: out.AccessToken,
		Identity:    model.Identity{ID: out.User.ID, Email: out.User.Email},
	}, nil
}

// CreateAccount registers a new account. The backend does not authenticate
// the account as part of signup; callers follow with ExchangeCredentials.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (model.Identity, error) {
	body, err := json.Marshal(passwordGrant{Email: email, Password: password})
	if err != nil {
		return model.Identity{}, fmt.Errorf("gateway: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/auth/v1/signup", "", bytes.NewReader(body))
	if err != nil {
		return model.Identity{}, err
	}

	data, err := c.do(req)
	if err != nil {
		return model.Identity{}, authFailure(err)
	}

	var out struct {
		User authUser `json:"user"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return model.Identity{}, fmt.Errorf("gateway: decode signup response: %w", err)
	}

	return model.Identity{ID: out.User.ID, Email: out.User.Email}, nil
}

// InvalidateCredentials revokes the token server-side. Local credential
// cleanup is the session store's job, not the gateway's.
func (c *Client) InvalidateCredentials(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", token, nil)
	if err != nil {
		return err
	}
	if _, err := c.do(req); err != nil {
		return err
	}
	return nil
}

// authFailure reclassifies generic status errors from the auth endpoints as
// auth failures; the endpoints report bad credentials and duplicate accounts
// with assorted 4xx codes.
func authFailure(err error) error {
	if errorsIsAny(err, model.ErrNetwork, model.ErrAuth) {
		return err
	}
	return fmt.Errorf("%w: %v", model.ErrAuth, err)
}
