package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderApple  Provider = "apple"
)

// Identity is what the external provider vouches for.
type Identity struct {
	UID      string
	Email    string
	Name     string
	PhotoURL string
	Provider Provider
}

var (
	ErrUnknownProvider = errors.New("unknown identity provider")
	ErrProviderDenied  = errors.New("identity provider rejected the token")
)

// Verifier exchanges a provider-issued ID token for the identity it
// asserts.
type Verifier interface {
	Verify(ctx context.Context, provider Provider, idToken string) (Identity, error)
}

// TokenInfoVerifier validates federated tokens against each provider's
// token-info endpoint over HTTPS. Endpoints are configurable so tests
// can point them at a local server.
type TokenInfoVerifier struct {
	endpoints map[Provider]string
	client    *http.Client
}

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

func NewTokenInfoVerifier(endpoints map[Provider]string) *TokenInfoVerifier {
	merged := map[Provider]string{
		ProviderGoogle: googleTokenInfoURL,
	}
	for p, e := range endpoints {
		if e != "" {
			merged[p] = e
		}
	}
	return &TokenInfoVerifier{
		endpoints: merged,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenInfoResponse struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (v *TokenInfoVerifier) Verify(ctx context.Context, provider Provider, idToken string) (Identity, error) {
	endpoint, ok := v.endpoints[provider]
	if !ok || endpoint == "" {
		return Identity{}, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return Identity{}, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: status %d", ErrProviderDenied, resp.StatusCode)
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Identity{}, err
	}
	if info.Sub == "" {
		return Identity{}, ErrProviderDenied
	}

	return Identity{
		UID:      info.Sub,
		Email:    info.Email,
		Name:     info.Name,
		PhotoURL: info.Picture,
		Provider: provider,
	}, nil
}
