package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/bryan-buckman/rewind365/internal/hostctx"
	"github.com/bryan-buckman/rewind365/internal/page"
)

// storeFactories returns the backends available to this test run. Postgres
// is included only when REWIND365_TEST_POSTGRES_DSN is set.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	factories := map[string]func(t *testing.T) Store{
		KindMemory: func(t *testing.T) Store { return NewMemory() },
		KindSQLite: func(t *testing.T) Store {
			db, err := NewSQLite(filepath.Join(t.TempDir(), "sessions.db"))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return db
		},
	}
	if dsn := os.Getenv("REWIND365_TEST_POSTGRES_DSN"); dsn != "" {
		factories[KindPostgres] = func(t *testing.T) Store {
			db, err := NewPostgres(dsn)
			if err != nil {
				t.Fatalf("open postgres: %v", err)
			}
			return db
		}
	}
	return factories
}

func sampleState(now time.Time) *State {
	s := NewState(now)
	s.Onboarded = true
	s.Host = hostctx.Snapshot{Initialized: true, Context: hostctx.MockContext()}
	s.Draft = page.Draft{Active: true, Channels: []string{"1", "3"}, Folders: []string{"inbox"}}
	return s
}

func TestStores(t *testing.T) {
	for kind, factory := range storeFactories(t) {
		t.Run(kind, func(t *testing.T) {
			store := factory(t)
			defer store.Close()
			ctx := context.Background()

			if store.Kind() != kind {
				t.Errorf("Kind() = %q, want %q", store.Kind(), kind)
			}

			if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}

			now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
			s := sampleState(now)
			if err := store.Save(ctx, s); err != nil {
				t.Fatalf("save: %v", err)
			}

			got, err := store.Get(ctx, s.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !got.Onboarded || !reflect.DeepEqual(got.Draft, s.Draft) {
				t.Errorf("round trip mismatch: got %+v, want %+v", got, s)
			}
			if got.Host.Context.User == nil || got.Host.Context.User.ID != "mock-user-id" {
				t.Errorf("host context lost: %+v", got.Host)
			}

			// Overwrite.
			s.Draft = page.Draft{}
			s.UpdatedAt = now.Add(time.Minute)
			if err := store.Save(ctx, s); err != nil {
				t.Fatalf("save again: %v", err)
			}
			got, _ = store.Get(ctx, s.ID)
			if got.Draft.Active {
				t.Error("expected overwritten draft")
			}

			if err := store.Delete(ctx, s.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestStores_Purge(t *testing.T) {
	for kind, factory := range storeFactories(t) {
		t.Run(kind, func(t *testing.T) {
			store := factory(t)
			defer store.Close()
			ctx := context.Background()

			now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
			old := sampleState(now.Add(-48 * time.Hour))
			fresh := sampleState(now.Add(-time.Hour))
			for _, s := range []*State{old, fresh} {
				if err := store.Save(ctx, s); err != nil {
					t.Fatalf("save: %v", err)
				}
			}

			j := NewJanitor(store, 24*time.Hour, 0)
			j.now = func() time.Time { return now }
			n, err := j.RunOnce(ctx)
			if err != nil {
				t.Fatalf("purge: %v", err)
			}
			if n != 1 {
				t.Errorf("expected 1 purged session, got %d", n)
			}
			if _, err := store.Get(ctx, old.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("old session should be gone, got %v", err)
			}
			if _, err := store.Get(ctx, fresh.ID); err != nil {
				t.Errorf("fresh session should remain, got %v", err)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		kind    string
		dsn     string
		want    string
		wantErr bool
	}{
		{kind: "", want: KindMemory},
		{kind: KindMemory, want: KindMemory},
		{kind: KindSQLite, dsn: filepath.Join(t.TempDir(), "open.db"), want: KindSQLite},
		{kind: KindPostgres, wantErr: true},
		{kind: "redis", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			store, err := Open(tt.kind, tt.dsn)
			if tt.wantErr {
				if err == nil {
					store.Close()
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer store.Close()
			if store.Kind() != tt.want {
				t.Errorf("Kind() = %q, want %q", store.Kind(), tt.want)
			}
		})
	}
}

func TestJanitor_StartStop(t *testing.T) {
	j := NewJanitor(NewMemory(), time.Hour, time.Hour)
	j.Start()
	j.Stop()
}

func TestNewState(t *testing.T) {
	now := time.Now()
	a, b := NewState(now), NewState(now)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
	if a.Onboarded {
		t.Error("new sessions start without onboarding")
	}
}
