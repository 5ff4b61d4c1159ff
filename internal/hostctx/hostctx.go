// Package hostctx holds the context reported by the hosting Teams client.
//
// An Adapter starts uninitialized and becomes initialized exactly once.
// When the host handshake fails the adapter substitutes a fixed mock
// context, so the app stays usable in a plain browser.
package hostctx

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/bryan-buckman/rewind365/internal/model"
)

// HostTeams is the host name Teams reports for itself.
const HostTeams = "Teams"

// DefaultTheme is used when the host does not report a theme.
const DefaultTheme = "default"

// ErrNotHosted is returned by a handshake when the request was not made by
// a Teams client.
var ErrNotHosted = errors.New("hostctx: request did not come from a Teams host")

// Handshaker performs the host handshake and reads the host context.
type Handshaker interface {
	Handshake(ctx context.Context) (model.HostContext, error)
}

// HandshakeFunc adapts a function to a Handshaker.
type HandshakeFunc func(ctx context.Context) (model.HostContext, error)

func (f HandshakeFunc) Handshake(ctx context.Context) (model.HostContext, error) {
	return f(ctx)
}

// Snapshot is the persisted form of an Adapter.
type Snapshot struct {
	Initialized bool              `json:"initialized"`
	Live        bool              `json:"live"`
	Context     model.HostContext `json:"context"`
}

// Adapter exposes the host context for one user session.
type Adapter struct {
	mu          sync.Mutex
	initialized bool
	live        bool
	hostCtx     model.HostContext
}

// New returns an uninitialized adapter.
func New() *Adapter {
	return &Adapter{}
}

// Restore rebuilds an adapter from a snapshot.
func Restore(s Snapshot) *Adapter {
	return &Adapter{
		initialized: s.Initialized,
		live:        s.Live,
		hostCtx:     s.Context,
	}
}

// Initialize runs the handshake once. Later calls, including concurrent
// ones, return without doing anything. A failed handshake installs
// MockContext.
func (a *Adapter) Initialize(ctx context.Context, hs Handshaker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return
	}

	hc, err := hs.Handshake(ctx)
	if err != nil {
		log.Printf("hostctx: handshake failed, using mock context: %v", err)
		a.hostCtx = MockContext()
		a.live = false
	} else {
		a.hostCtx = normalize(hc)
		a.live = true
	}
	a.initialized = true
}

// Initialized reports whether Initialize has completed.
func (a *Adapter) Initialized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initialized
}

// Snapshot returns the persisted form of the adapter.
func (a *Adapter) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{Initialized: a.initialized, Live: a.live, Context: a.hostCtx}
}

// Context returns the host context, or false before initialization.
func (a *Adapter) Context() (model.HostContext, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return model.HostContext{}, false
	}
	return a.hostCtx, true
}

// Theme returns the host theme.
func (a *Adapter) Theme() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.hostCtx.Theme == "" {
		return DefaultTheme
	}
	return a.hostCtx.Theme
}

// UserID returns the host user's id, if any.
func (a *Adapter) UserID() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.hostCtx.User == nil || a.hostCtx.User.ID == "" {
		return "", false
	}
	return a.hostCtx.User.ID, true
}

// InHost reports whether the real handshake succeeded and came from Teams.
// It is false for the mock context.
func (a *Adapter) InHost() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initialized && a.live && a.hostCtx.HostName == HostTeams
}

// MockContext is the context used outside of Teams.
func MockContext() model.HostContext {
	return model.HostContext{
		HostName: HostTeams,
		Theme:    DefaultTheme,
		User: &model.HostUser{
			ID:                "mock-user-id",
			DisplayName:       "Mock User",
			UserPrincipalName: "mock.user@company.com",
		},
		Team: &model.HostTeam{
			InternalID:  "mock-team-id",
			DisplayName: "Mock Team",
		},
		Channel: &model.HostChannel{
			ID:          "mock-channel-id",
			DisplayName: "Mock Channel",
		},
	}
}

func normalize(hc model.HostContext) model.HostContext {
	if hc.Theme == "" {
		hc.Theme = DefaultTheme
	}
	if hc.User != nil && hc.User.DisplayName == "" {
		hc.User.DisplayName = "Unknown User"
	}
	if hc.Team != nil && hc.Team.DisplayName == "" {
		hc.Team.DisplayName = "Unknown Team"
	}
	if hc.Channel != nil && hc.Channel.DisplayName == "" {
		hc.Channel.DisplayName = "Unknown Channel"
	}
	return hc
}

// Query parameters filled in by Teams from the tab's content URL template.
const (
	ParamHostName          = "hostName"
	ParamTheme             = "theme"
	ParamUserObjectID      = "userObjectId"
	ParamUserDisplayName   = "userDisplayName"
	ParamUserPrincipalName = "userPrincipalName"
	ParamTeamID            = "teamId"
	ParamTeamName          = "teamName"
	ParamChannelID         = "channelId"
	ParamChannelName       = "channelName"
)

// QueryHandshake reads the host context from the substitution parameters
// Teams appends to the tab's content URL. Values still holding an
// unsubstituted "{placeholder}" are treated as missing.
func QueryHandshake(q url.Values) Handshaker {
	return HandshakeFunc(func(ctx context.Context) (model.HostContext, error) {
		get := func(key string) string {
			v := strings.TrimSpace(q.Get(key))
			if strings.HasPrefix(v, "{") && strings.HasSuffix(v, "}") {
				return ""
			}
			return v
		}

		host := get(ParamHostName)
		if host == "" {
			return model.HostContext{}, ErrNotHosted
		}

		hc := model.HostContext{
			HostName: host,
			Theme:    get(ParamTheme),
		}
		if id := get(ParamUserObjectID); id != "" {
			hc.User = &model.HostUser{
				ID:                id,
				DisplayName:       get(ParamUserDisplayName),
				UserPrincipalName: get(ParamUserPrincipalName),
			}
		}
		if id := get(ParamTeamID); id != "" {
			hc.Team = &model.HostTeam{InternalID: id, DisplayName: get(ParamTeamName)}
		}
		if id := get(ParamChannelID); id != "" {
			hc.Channel = &model.HostChannel{ID: id, DisplayName: get(ParamChannelName)}
		}
		return hc, nil
	})
}
