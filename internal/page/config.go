package page

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/bryan-buckman/rewind365/internal/api"
	"github.com/bryan-buckman/rewind365/internal/hostctx"
	"github.com/bryan-buckman/rewind365/internal/model"
	"github.com/bryan-buckman/rewind365/internal/selection"
	"golang.org/x/sync/errgroup"
)

// User-facing messages.
const (
	MsgConfigLoadFailed = "Failed to load configuration options. Please try again."
	MsgEmptySelection   = "Please select at least one channel or folder to monitor."
)

// ErrEmptySelection is returned by Save when nothing is selected.
var ErrEmptySelection = errors.New("page: no channel or folder selected")

// demoSelectionSize is how many channels and folders Skip selects.
const demoSelectionSize = 2

// Draft is the in-progress selection on the Config page. It is not visible
// to other pages until saved.
type Draft struct {
	Active   bool     `json:"active"`
	Channels []string `json:"channels"`
	Folders  []string `json:"folders"`
}

// Outcome is the result of a successful save or skip.
type Outcome struct {
	Redirect  string
	Onboarded bool
	Receipt   api.WriteReceipt
}

// Config is the controller for the preferences page.
type Config struct {
	source ConfigSource

	state    State
	message  string
	fallback bool
	channels []model.Channel
	folders  []model.Folder
	draft    Draft
}

// NewConfig returns a controller resuming from draft. An inactive draft
// means the page is being entered fresh.
func NewConfig(source ConfigSource, draft Draft) *Config {
	return &Config{source: source, draft: draft}
}

// Load initializes the host context, fetches channels and folders in
// parallel and, on a fresh entry, seeds the selection from saved
// preferences.
func (c *Config) Load(ctx context.Context, host *hostctx.Adapter, hs hostctx.Handshaker) error {
	c.state = StateLoading
	c.message = ""
	host.Initialize(ctx, hs)

	var channels api.Result[[]model.Channel]
	var folders api.Result[[]model.Folder]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		channels = c.source.ListChannels(gctx)
		if channels.Err != nil {
			return fmt.Errorf("list channels: %w", channels.Err)
		}
		return nil
	})
	g.Go(func() error {
		folders = c.source.ListFolders(gctx)
		if folders.Err != nil {
			return fmt.Errorf("list folders: %w", folders.Err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return c.fail(err)
	}
	c.channels = channels.Data
	c.folders = folders.Data
	c.fallback = channels.Fallback() || folders.Fallback()

	if !c.draft.Active {
		prefs := c.source.ReadPreferences(ctx)
		if prefs.Err != nil {
			return c.fail(fmt.Errorf("read preferences: %w", prefs.Err))
		}
		c.draft = Draft{Active: true, Channels: []string{}, Folders: []string{}}
		if prefs.Data != nil {
			c.draft.Channels = slices.Clone(prefs.Data.SelectedChannels)
			c.draft.Folders = slices.Clone(prefs.Data.SelectedFolders)
		}
	}

	c.state = StateReady
	return nil
}

func (c *Config) fail(err error) error {
	log.Printf("config page: failed to initialize: %v", err)
	c.state = StateError
	c.message = MsgConfigLoadFailed
	return err
}

// ToggleChannel flips one channel in the selection. Ids that are not
// candidates are ignored.
func (c *Config) ToggleChannel(id string) {
	if !selection.Channels.Has(c.channels, id) {
		return
	}
	c.draft.Channels = selection.Toggle(c.draft.Channels, id)
}

// ToggleFolder flips one folder in the selection. Ids that are not
// candidates are ignored.
func (c *Config) ToggleFolder(id string) {
	if !selection.Folders.Has(c.folders, id) {
		return
	}
	c.draft.Folders = selection.Toggle(c.draft.Folders, id)
}

// ToggleAllChannels clicks the "select all channels" box.
func (c *Config) ToggleAllChannels() {
	c.draft.Channels = selection.Channels.ToggleAll(c.channels, c.draft.Channels)
}

// ToggleAllFolders clicks the "select all folders" box.
func (c *Config) ToggleAllFolders() {
	c.draft.Folders = selection.Folders.ToggleAll(c.folders, c.draft.Folders)
}

// Save writes the selection. An empty selection is rejected without
// contacting the API.
func (c *Config) Save(ctx context.Context) (Outcome, error) {
	if len(c.draft.Channels) == 0 && len(c.draft.Folders) == 0 {
		c.message = MsgEmptySelection
		return Outcome{}, ErrEmptySelection
	}
	c.message = ""
	return c.write(ctx), nil
}

// Skip selects the first few channels and folders and saves them. The
// write outcome does not matter.
func (c *Config) Skip(ctx context.Context) Outcome {
	c.draft.Channels = selection.Channels.FirstIDs(c.channels, demoSelectionSize)
	c.draft.Folders = selection.Folders.FirstIDs(c.folders, demoSelectionSize)
	return c.write(ctx)
}

func (c *Config) write(ctx context.Context) Outcome {
	receipt := c.source.WritePreferences(ctx, model.UserPreferences{
		SelectedChannels: slices.Clone(c.draft.Channels),
		SelectedFolders:  slices.Clone(c.draft.Folders),
	})
	c.draft = Draft{}
	return Outcome{Redirect: PathHome, Onboarded: true, Receipt: receipt}
}

// State returns the loading state.
func (c *Config) State() State { return c.state }

// Message returns the error banner text, if any.
func (c *Config) Message() string { return c.message }

// Fallback reports whether the candidate lists are example data.
func (c *Config) Fallback() bool { return c.fallback }

// Draft returns the current selection.
func (c *Config) Draft() Draft { return c.draft }

// Channels returns the candidate channels.
func (c *Config) Channels() []model.Channel { return c.channels }

// Folders returns the candidate folders.
func (c *Config) Folders() []model.Folder { return c.folders }

// ChannelPicker returns the render model of the channel picker.
func (c *Config) ChannelPicker() selection.View {
	return selection.Channels.View(c.channels, c.draft.Channels)
}

// FolderPicker returns the render model of the folder picker.
func (c *Config) FolderPicker() selection.View {
	return selection.Folders.View(c.folders, c.draft.Folders)
}

// SelectedSummary is the footer line, e.g. "Selected: 2 channels, 1 folders".
func (c *Config) SelectedSummary() string {
	return fmt.Sprintf("Selected: %d channels, %d folders", len(c.draft.Channels), len(c.draft.Folders))
}
