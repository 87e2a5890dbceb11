package mastodon

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bcgodev/tootdeck/domain"
)

// accountService implements app.AccountService using the Mastodon API.
type accountService struct {
	client *Client
	cached *domain.Account
}

// NewAccountService creates an AccountService backed by Mastodon.
func NewAccountService(client *Client) *accountService {
	return &accountService{client: client}
}

func (s *accountService) CurrentAccount(ctx context.Context) (domain.Account, error) {
	if s.cached != nil {
		return *s.cached, nil
	}

	data, err := s.client.Get(ctx, "/api/v1/accounts/verify_credentials")
	if err != nil {
		return domain.Account{}, fmt.Errorf("fetching account: %w", err)
	}

	var acct mastodonAccount
	if err := json.Unmarshal(data, &acct); err != nil {
		return domain.Account{}, fmt.Errorf("parsing account: %w", err)
	}

	account := domain.Account{
		ID:          acct.ID,
		Acct:        acct.Acct,
		DisplayName: acct.DisplayName,
	}
	s.cached = &account
	return account, nil
}

// DefaultVisibility reads the account's configured default posting
// visibility from the preferences endpoint.
func (s *accountService) DefaultVisibility(ctx context.Context) (domain.Visibility, error) {
	data, err := s.client.Get(ctx, "/api/v1/preferences")
	if err != nil {
		return "", fmt.Errorf("fetching preferences: %w", err)
	}

	var prefs map[string]json.RawMessage
	if err := json.Unmarshal(data, &prefs); err != nil {
		return "", fmt.Errorf("parsing preferences: %w", err)
	}

	raw, ok := prefs["posting:default:visibility"]
	if !ok {
		return domain.VisibilityPublic, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("parsing default visibility: %w", err)
	}
	if vis, ok := domain.ParseVisibility(value); ok {
		return vis, nil
	}
	return domain.VisibilityPublic, nil
}
