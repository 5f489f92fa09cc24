package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandeepkv93/lifesys/internal/model"
	"github.com/sandeepkv93/lifesys/internal/storage"
)

var ErrPersist = errors.New("state: persist failed")

type Persister interface {
	Save(ctx context.Context, s model.AppState) error
}

// Container owns the current state. Every successful command replaces the
// in-memory state first and then writes the whole document.
type Container struct {
	state   model.AppState
	repo    Persister
	env     Env
	log     *slog.Logger
	lastErr error
}

func NewContainer(initial model.AppState, repo Persister, env Env, log *slog.Logger) *Container {
	if env.NewID == nil || env.Now == nil {
		def := DefaultEnv()
		if env.NewID == nil {
			env.NewID = def.NewID
		}
		if env.Now == nil {
			env.Now = def.Now
		}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Container{state: initial.Clone(), repo: repo, env: env, log: log}
}

// Open loads the stored document (or the default state) into a container.
func Open(ctx context.Context, repo *storage.StateRepository, env Env, log *slog.Logger) (*Container, storage.LoadOutcome, error) {
	c := NewContainer(model.AppState{}, repo, env, log)
	initial, outcome, err := repo.Load(ctx, c.env.Now())
	if err != nil {
		return nil, outcome, err
	}
	switch outcome {
	case storage.LoadCorrupt:
		c.log.Warn("stored state unreadable, starting from defaults", "key", repo.Key())
	case storage.LoadRepaired:
		c.log.Warn("stored state had unreadable tasks, they were left out", "key", repo.Key())
	}
	c.state = initial
	return c, outcome, nil
}

// State returns a copy the caller may keep.
func (c *Container) State() model.AppState {
	return c.state.Clone()
}

// Now is the container's clock, shared with the commands it applies.
func (c *Container) Now() time.Time {
	return c.env.Now()
}

func (c *Container) LastPersistError() error {
	return c.lastErr
}

// Dispatch applies cmd. A no-op command writes nothing and returns
// (false, nil). When the write fails twice the new state is kept and an
// error wrapping ErrPersist is returned.
func (c *Container) Dispatch(ctx context.Context, cmd Command) (bool, error) {
	next, changed := cmd.Apply(c.state, c.env)
	if !changed {
		return false, nil
	}
	c.state = next
	c.log.Debug("state updated", "command", cmd.Kind())
	return true, c.persist(ctx, cmd.Kind())
}

// Reset discards everything and persists the default state.
func (c *Container) Reset(ctx context.Context) error {
	c.state = model.DefaultState(c.env.Now())
	return c.persist(ctx, "reset")
}

func (c *Container) persist(ctx context.Context, op string) error {
	if c.repo == nil {
		return nil
	}
	err := c.repo.Save(ctx, c.state)
	if err != nil {
		c.log.Warn("persist failed, retrying", "command", op, "err", err)
		err = c.repo.Save(ctx, c.state)
	}
	if err != nil {
		c.lastErr = err
		c.log.Error("persist failed", "command", op, "err", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	c.lastErr = nil
	return nil
}
