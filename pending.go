package magiclink

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/templui/magiclink/model"
	"github.com/templui/magiclink/store"
)

var (
	// ErrLinkNotFound covers absent, expired and never-issued alike.
	ErrLinkNotFound = errors.New("pending link not found")

	// ErrLinkUsed means the link was already consumed by a verification.
	ErrLinkUsed = errors.New("pending link already used")
)

// PendingLinkStore maps a token's storage hash to its issuance record and
// enforces single use. Records live in the expiring store under the
// "magiclink:" namespace.
type PendingLinkStore struct {
	kv store.Store
}

func NewPendingLinkStore(kv store.Store) *PendingLinkStore {
	return &PendingLinkStore{kv: kv}
}

// Put persists a pending link for ttl. An existing record under the same
// hash is overwritten; with 256-bit random tokens a collision is not a
// practical concern.
func (s *PendingLinkStore) Put(ctx context.Context, link model.PendingLink, ttl time.Duration) error {
	value, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, pendingKey(link.TokenHash), value, ttl)
}

// Get looks up a pending link by storage hash.
func (s *PendingLinkStore) Get(ctx context.Context, tokenHash string) (*model.PendingLink, error) {
	value, err := s.kv.Get(ctx, pendingKey(tokenHash))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}

	link := &model.PendingLink{}
	err = json.Unmarshal(value, link)
	if err != nil {
		return nil, err
	}
	return link, nil
}

// MarkUsed transitions a link to used and re-persists it for the short
// forensic retention window. The transition is a compare-and-swap, so of any
// number of concurrent calls exactly one returns the updated link; the rest
// observe the winner's write and get ErrLinkUsed.
func (s *PendingLinkStore) MarkUsed(ctx context.Context, tokenHash string, usedAt time.Time, usedFromIP string, retention time.Duration) (*model.PendingLink, error) {
	key := pendingKey(tokenHash)

	for {
		old, err := s.kv.Get(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		if err != nil {
			return nil, err
		}

		link := model.PendingLink{}
		err = json.Unmarshal(old, &link)
		if err != nil {
			return nil, err
		}
		if link.Used {
			return nil, ErrLinkUsed
		}

		link.Used = true
		link.UsedAt = &usedAt
		link.UsedFromIP = &usedFromIP

		updated, err := json.Marshal(link)
		if err != nil {
			return nil, err
		}

		swapped, err := s.kv.CompareAndSwap(ctx, key, old, updated, retention)
		if err != nil {
			return nil, err
		}
		if swapped {
			return &link, nil
		}
		// Lost the race; the next read sees the winner's used flag.
	}
}

func pendingKey(tokenHash string) string {
	return "magiclink:" + tokenHash
}
