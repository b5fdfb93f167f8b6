package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrymomot/publishkit/pkg/social"
	"github.com/dmitrymomot/publishkit/pkg/statestore"
)

// mirror is the local key-value copy of account records used when the primary
// store denies permission. One record per platform, JSON-encoded under the
// social_account_{platform} key.
type mirror struct {
	store statestore.Store
}

func (m mirror) save(ctx context.Context, account *social.Account) error {
	cp := *account
	cp.SavedLocally = true

	raw, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to serialize account: %w", err)
	}
	if err := m.store.Set(ctx, statestore.AccountKey(account.Platform), string(raw), 0); err != nil {
		return fmt.Errorf("failed to mirror account locally: %w", err)
	}
	return nil
}

// get returns the mirrored account or ErrAccountNotFound. Corrupt entries are
// reported as parse errors so callers can decide whether to skip or fail.
func (m mirror) get(ctx context.Context, platform social.Platform) (*social.Account, error) {
	raw, err := m.store.Get(ctx, statestore.AccountKey(platform))
	if err != nil {
		if errors.Is(err, statestore.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	var account social.Account
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return nil, fmt.Errorf("corrupt mirror entry for %s: %w", platform, err)
	}
	account.SavedLocally = true
	return &account, nil
}

func (m mirror) delete(ctx context.Context, platform social.Platform) error {
	return m.store.Delete(ctx, statestore.AccountKey(platform))
}

func (m mirror) exists(ctx context.Context, platform social.Platform) bool {
	_, err := m.store.Get(ctx, statestore.AccountKey(platform))
	return err == nil
}
