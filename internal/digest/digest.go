// Package digest turns a DailyDigest into what the user sees: a count
// summary followed by one section per priority.
package digest

import (
	"time"

	"github.com/bryan-buckman/rewind365/internal/model"
)

// Section keys, also used as CSS modifiers.
const (
	KeyUrgent        = "urgent"
	KeyAction        = "action"
	KeyInfo          = "info"
	KeyUncategorized = "uncategorized"
)

// Empty-state copy.
const (
	EmptyTitle   = "No updates today! 🎉"
	EmptyMessage = "You're all caught up. Check back later for new updates."
)

// Layouts for rendered times.
const (
	TimeLayout = "03:04 PM"
	DateLayout = "Monday, January 2, 2006"
)

// Bucket holds the items of one priority.
type Bucket struct {
	Key   string
	Label string
	Icon  string
	Items []model.DigestItem
}

// Partition splits items into urgent, action, info and uncategorized
// buckets, in that order. Items keep their input order. Any priority other
// than the three known ones lands in the uncategorized bucket.
func Partition(items []model.DigestItem) []Bucket {
	buckets := []Bucket{
		{Key: KeyUrgent, Label: "Urgent", Icon: "🔥"},
		{Key: KeyAction, Label: "Action Required", Icon: "✅"},
		{Key: KeyInfo, Label: "Information", Icon: "💬"},
		{Key: KeyUncategorized, Label: "Uncategorized", Icon: "📌"},
	}
	for _, it := range items {
		var i int
		switch it.Priority {
		case model.PriorityUrgent:
			i = 0
		case model.PriorityAction:
			i = 1
		case model.PriorityInfo:
			i = 2
		default:
			i = 3
		}
		buckets[i].Items = append(buckets[i].Items, it)
	}
	return buckets
}

// View is the render model of a digest.
type View struct {
	Date     string
	Empty    bool
	Summary  model.DigestSummary
	Sections []Section
}

// Section is one non-empty priority bucket.
type Section struct {
	Key   string
	Label string
	Icon  string
	Cards []Card
}

// Count is the number of cards in the section.
func (s Section) Count() int {
	return len(s.Cards)
}

// Card is one rendered digest item.
type Card struct {
	ID            string
	Key           string
	SourceIcon    string
	SourceLabel   string
	SourceDetails string
	Time          string
	Timestamp     time.Time
	Title         string
	Summary       string
	URL           string
	LinkLabel     string
}

// Build renders d into a View. Times are shown in loc; a nil loc means
// time.Local. The summary counts are taken from d.Summary as reported.
func Build(d model.DailyDigest, loc *time.Location) View {
	if loc == nil {
		loc = time.Local
	}
	v := View{
		Date:    FormatDate(d.Date),
		Empty:   len(d.Items) == 0,
		Summary: d.Summary,
	}
	if v.Empty {
		return v
	}
	for _, b := range Partition(d.Items) {
		if len(b.Items) == 0 {
			continue
		}
		s := Section{Key: b.Key, Label: b.Label, Icon: b.Icon}
		for _, it := range b.Items {
			s.Cards = append(s.Cards, newCard(b.Key, it, loc))
		}
		v.Sections = append(v.Sections, s)
	}
	return v
}

func newCard(key string, it model.DigestItem, loc *time.Location) Card {
	c := Card{
		ID:            it.ID,
		Key:           key,
		SourceDetails: it.SourceDetails,
		Time:          FormatTime(it.Timestamp, loc),
		Timestamp:     it.Timestamp,
		Title:         it.Title,
		Summary:       it.Summary,
		URL:           it.URL,
	}
	switch it.Source {
	case model.SourceTeams:
		c.SourceIcon, c.SourceLabel, c.LinkLabel = "👥", "Teams", "View in Teams"
	case model.SourceOutlook:
		c.SourceIcon, c.SourceLabel, c.LinkLabel = "📧", "Outlook", "View in Outlook"
	default:
		c.SourceIcon, c.SourceLabel, c.LinkLabel = "•", string(it.Source), "Open"
	}
	return c
}

// FormatTime renders the time of day on a 12-hour clock, e.g. "02:30 PM".
func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimeLayout)
}

// FormatDate renders a YYYY-MM-DD date as "Monday, January 2, 2006". An
// unparseable date is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(model.DigestDateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(DateLayout)
}
