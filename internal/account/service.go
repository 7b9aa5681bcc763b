package account

import (
	"context"
	"errors"
	"fmt"
)

// Reader looks up a verified user's account and projects its balances.
type Reader struct {
	repo Repository
}

// NewReader builds a balance reader over the given repository.
func NewReader(repo Repository) *Reader {
	return &Reader{repo: repo}
}

// Fetch performs a single read. It returns ErrNotFound when the user has no
// account; callers must only pass uids that passed authentication.
func (r *Reader) Fetch(ctx context.Context, userUID string) (Balance, error) {
	rec, err := r.repo.FindByUserUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Balance{}, ErrNotFound
		}
		return Balance{}, fmt.Errorf("find account %s: %w", userUID, err)
	}
	return rec.Project(), nil
}
