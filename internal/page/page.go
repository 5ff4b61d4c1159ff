// Package page holds the controllers behind the Config, Home and About
// pages. Controllers own page-level loading state and talk to the API
// client through the small interfaces below; they know nothing about HTTP.
package page

import (
	"context"

	"github.com/bryan-buckman/rewind365/internal/api"
	"github.com/bryan-buckman/rewind365/internal/model"
)

// Route paths.
const (
	PathRoot   = "/"
	PathConfig = "/config"
	PathHome   = "/home"
	PathAbout  = "/about"
)

// State is a controller's loading state.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ConfigSource is what the Config page needs from the API.
type ConfigSource interface {
	ListChannels(ctx context.Context) api.Result[[]model.Channel]
	ListFolders(ctx context.Context) api.Result[[]model.Folder]
	ReadPreferences(ctx context.Context) api.Result[*model.UserPreferences]
	WritePreferences(ctx context.Context, prefs model.UserPreferences) api.WriteReceipt
}

// DigestSource is what the Home page needs from the API.
type DigestSource interface {
	ReadDailyDigest(ctx context.Context) api.Result[model.DailyDigest]
}

var (
	_ ConfigSource = (*api.Client)(nil)
	_ DigestSource = (*api.Client)(nil)
)
