package page

import (
	"context"
	"log"
	"time"

	"github.com/bryan-buckman/rewind365/internal/digest"
	"github.com/bryan-buckman/rewind365/internal/model"
)

// MsgDigestLoadFailed is shown when the digest cannot be loaded.
const MsgDigestLoadFailed = "Failed to load your daily digest. Please try again."

// Home is the controller for the daily digest page.
type Home struct {
	source DigestSource
	now    func() time.Time
	loc    *time.Location

	state         State
	message       string
	fallback      bool
	digest        model.DailyDigest
	lastRefreshed time.Time
}

// NewHome returns a Home controller. now defaults to time.Now and loc to
// time.Local.
func NewHome(source DigestSource, now func() time.Time, loc *time.Location) *Home {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Home{source: source, now: now, loc: loc}
}

// Load fetches the digest. It is also the refresh and retry action.
func (h *Home) Load(ctx context.Context) error {
	h.state = StateLoading
	h.message = ""

	res := h.source.ReadDailyDigest(ctx)
	if res.Err != nil {
		log.Printf("home page: failed to load digest: %v", res.Err)
		h.state = StateError
		h.message = MsgDigestLoadFailed
		return res.Err
	}

	h.digest = res.Data
	h.fallback = res.Fallback()
	h.lastRefreshed = h.now()
	h.state = StateReady
	return nil
}

// State returns the loading state.
func (h *Home) State() State { return h.state }

// Message returns the error banner text, if any.
func (h *Home) Message() string { return h.message }

// Fallback reports whether the digest is example data.
func (h *Home) Fallback() bool { return h.fallback }

// Digest returns the loaded digest.
func (h *Home) Digest() model.DailyDigest { return h.digest }

// View returns the digest render model.
func (h *Home) View() digest.View {
	return digest.Build(h.digest, h.loc)
}

// LastRefreshed is when the last successful load completed.
func (h *Home) LastRefreshed() time.Time { return h.lastRefreshed }

// LastRefreshedLabel formats LastRefreshed as a time of day.
func (h *Home) LastRefreshedLabel() string {
	return digest.FormatTime(h.lastRefreshed, h.loc)
}
