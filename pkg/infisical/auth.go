package infisical

import (
	"context"
	"encoding/json"
	"fmt"
)

// AuthClient performs machine identity logins.
type AuthClient struct {
	transport *transport
}

// UniversalAuthLogin exchanges a client ID and secret for an access token and
// installs it as the bearer token for every later request of this client.
// Calling it again repeats the exchange and replaces the token.
func (a *AuthClient) UniversalAuthLogin(ctx context.Context, clientID, clientSecret string) (*MachineIdentityLoginResponse, error) {
	body, err := json.Marshal(map[string]string{
		"clientId":     clientID,
		"clientSecret": clientSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	data, err := a.transport.post(ctx, "login", loginEndpoint, body)
	if err != nil {
		return nil, err
	}

	var resp MachineIdentityLoginResponse
	if err := decodeBody(data, &resp); err != nil {
		return nil, err
	}

	a.transport.setDefaultHeader("Authorization", "Bearer "+resp.AccessToken)
	return &resp, nil
}

// login runs the strategy configured in auth.
func (a *AuthClient) login(ctx context.Context, auth Authentication) (*MachineIdentityLoginResponse, error) {
	switch auth.strategy {
	case AuthStrategyUniversalAuth:
		if auth.clientSecret.IsEmpty() {
			return nil, &OptionsError{Options: "Authentication", Field: "clientSecret", Message: "Client Secret cannot be empty"}
		}
		secret, err := auth.clientSecret.Reveal()
		if err != nil {
			return nil, fmt.Errorf("reveal client secret: %w", err)
		}
		return a.UniversalAuthLogin(ctx, auth.clientID, secret)
	default:
		return nil, &OptionsError{Options: "Authentication", Field: "strategy", Message: "unsupported authentication strategy"}
	}
}
