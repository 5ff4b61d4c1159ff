// Package session stores per-browser UI state: the host context, the
// onboarding flag and the Config page draft. Three backends satisfy Store:
// in-memory, SQLite and PostgreSQL.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bryan-buckman/rewind365/internal/hostctx"
	"github.com/bryan-buckman/rewind365/internal/page"
	"github.com/google/uuid"
)

// ErrNotFound is returned by Get for unknown or purged sessions.
var ErrNotFound = errors.New("session: not found")

// Store kinds accepted by Open.
const (
	KindMemory   = "memory"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// State is everything kept for one session.
type State struct {
	ID        string           `json:"id"`
	Host      hostctx.Snapshot `json:"host"`
	Onboarded bool             `json:"onboarded"`
	Draft     page.Draft       `json:"draft"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// NewState returns a fresh session with a random id.
func NewState(now time.Time) *State {
	return &State{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
}

// Store defines the interface for session persistence.
type Store interface {
	Close() error

	// Kind returns the backend name ("memory", "sqlite" or "postgres").
	Kind() string

	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, s *State) error
	Delete(ctx context.Context, id string) error

	// Purge removes sessions not updated since before. It returns the
	// number of sessions removed.
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// Open returns the store selected by kind. dsn is a file path for SQLite and
// a connection string for PostgreSQL; it is ignored for memory.
func Open(kind, dsn string) (Store, error) {
	switch kind {
	case "", KindMemory:
		return NewMemory(), nil
	case KindSQLite:
		if dsn == "" {
			dsn = "rewind365.db"
		}
		return NewSQLite(dsn)
	case KindPostgres:
		if dsn == "" {
			return nil, errors.New("session: postgres store needs a DSN")
		}
		return NewPostgres(dsn)
	default:
		return nil, fmt.Errorf("session: unknown store %q (expected memory|sqlite|postgres)", kind)
	}
}

func encode(s *State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	return data, nil
}

func decode(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}
