package app

import (
	"context"

	"github.com/bcgodev/tootdeck/domain"
)

// AccountService provides information about the authenticated user.
type AccountService interface {
	// CurrentAccount returns the authenticated user's account.
	CurrentAccount(ctx context.Context) (domain.Account, error)

	// DefaultVisibility returns the account's configured default posting
	// visibility.
	DefaultVisibility(ctx context.Context) (domain.Visibility, error)
}
