package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/lifesys/internal/model"
)

type LoadOutcome string

const (
	LoadFresh    LoadOutcome = "fresh"
	LoadRestored LoadOutcome = "restored"
	LoadCorrupt  LoadOutcome = "corrupt"
	// LoadRepaired means the document was read but some task elements were
	// unreadable and left out.
	LoadRepaired LoadOutcome = "repaired"
)

// StateRepository persists the application state as one document under key.
type StateRepository struct {
	store DocumentStore
	key   string
}

func NewStateRepository(store DocumentStore, key string) *StateRepository {
	if strings.TrimSpace(key) == "" {
		key = DefaultStateKey
	}
	return &StateRepository{store: store, key: key}
}

func (r *StateRepository) Key() string { return r.key }

// Load never fails on bad data: a missing or unreadable document yields the
// default state. Only store I/O errors are returned.
func (r *StateRepository) Load(ctx context.Context, now time.Time) (model.AppState, LoadOutcome, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.DefaultState(now), LoadFresh, nil
		}
		return model.DefaultState(now), LoadFresh, fmt.Errorf("load %s: %w", r.key, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return model.DefaultState(now), LoadFresh, nil
	}
	s, dropped, err := DecodeState(raw)
	if err != nil {
		return model.DefaultState(now), LoadCorrupt, nil
	}
	if dropped > 0 {
		return s, LoadRepaired, nil
	}
	return s, LoadRestored, nil
}

func (r *StateRepository) Save(ctx context.Context, s model.AppState) error {
	body, err := EncodeState(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := r.store.Put(ctx, r.key, body); err != nil {
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	return nil
}

// UpdatedAt reports when the document was last saved. A document that was
// never written yields ErrNotFound.
func (r *StateRepository) UpdatedAt(ctx context.Context) (time.Time, error) {
	return r.store.UpdatedAt(ctx, r.key)
}

// Raw returns the stored document bytes as-is.
func (r *StateRepository) Raw(ctx context.Context) ([]byte, error) {
	return r.store.Get(ctx, r.key)
}

func (r *StateRepository) Reset(ctx context.Context) error {
	err := r.store.Delete(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
