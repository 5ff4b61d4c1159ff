package digest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bryan-buckman/rewind365/internal/api"
	"github.com/bryan-buckman/rewind365/internal/model"
	"github.com/muesli/termenv"
)

func item(id string, p model.Priority) model.DigestItem {
	return model.DigestItem{
		ID:        id,
		Title:     "Item " + id,
		Source:    model.SourceTeams,
		Priority:  p,
		Timestamp: time.Date(2026, 10, 19, 14, 5, 0, 0, time.UTC),
	}
}

func TestBuild_SectionOrderAndCounts(t *testing.T) {
	d := model.DailyDigest{
		Date: "2026-10-19",
		Items: []model.DigestItem{
			item("a", model.PriorityUrgent),
			item("b", model.PriorityAction),
			item("c", model.PriorityInfo),
			item("d", model.PriorityAction),
		},
	}
	v := Build(d, time.UTC)

	if v.Empty {
		t.Fatal("expected a non-empty view")
	}
	wantKeys := []string{KeyUrgent, KeyAction, KeyInfo}
	wantIDs := [][]string{{"a"}, {"b", "d"}, {"c"}}
	if len(v.Sections) != len(wantKeys) {
		t.Fatalf("expected %d sections, got %d", len(wantKeys), len(v.Sections))
	}
	for i, s := range v.Sections {
		if s.Key != wantKeys[i] {
			t.Errorf("section %d: key %q, want %q", i, s.Key, wantKeys[i])
		}
		if s.Count() != len(wantIDs[i]) {
			t.Errorf("section %q: count %d, want %d", s.Key, s.Count(), len(wantIDs[i]))
		}
		for j, c := range s.Cards {
			if c.ID != wantIDs[i][j] {
				t.Errorf("section %q card %d: id %q, want %q", s.Key, j, c.ID, wantIDs[i][j])
			}
		}
	}
}

func TestBuild_Empty(t *testing.T) {
	v := Build(model.DailyDigest{Date: "2026-10-19"}, time.UTC)
	if !v.Empty {
		t.Error("expected empty view")
	}
	if len(v.Sections) != 0 {
		t.Errorf("expected no sections, got %d", len(v.Sections))
	}
}

func TestBuild_OmitsEmptyBuckets(t *testing.T) {
	v := Build(model.DailyDigest{Items: []model.DigestItem{item("x", model.PriorityInfo)}}, time.UTC)
	if len(v.Sections) != 1 || v.Sections[0].Key != KeyInfo {
		t.Errorf("expected only the info section, got %+v", v.Sections)
	}
}

func TestBuild_UnknownPriorityIsKept(t *testing.T) {
	v := Build(model.DailyDigest{Items: []model.DigestItem{
		item("x", "fyi"),
		item("y", model.PriorityUrgent),
	}}, time.UTC)

	if len(v.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(v.Sections))
	}
	last := v.Sections[1]
	if last.Key != KeyUncategorized || last.Cards[0].ID != "x" {
		t.Errorf("expected unknown priority in a trailing uncategorized section, got %+v", last)
	}
}

func TestBuild_SummaryIsTakenAsReported(t *testing.T) {
	d := model.DailyDigest{
		Items:   []model.DigestItem{item("a", model.PriorityUrgent)},
		Summary: model.DigestSummary{TotalItems: 9, UrgentCount: 9},
	}
	if got := Build(d, time.UTC).Summary.UrgentCount; got != 9 {
		t.Errorf("expected reported count 9, got %d", got)
	}
}

func TestBuild_Cards(t *testing.T) {
	d := api.FallbackDigest(time.Date(2026, 10, 19, 16, 30, 0, 0, time.UTC))
	v := Build(d, time.UTC)

	urgent := v.Sections[0].Cards[0]
	if urgent.SourceLabel != "Teams" || urgent.SourceDetails != "Marketing Team > General" {
		t.Errorf("unexpected source on %+v", urgent)
	}
	if urgent.Time != "02:30 PM" {
		t.Errorf("expected 02:30 PM, got %q", urgent.Time)
	}
	if urgent.URL == "" || urgent.LinkLabel != "View in Teams" {
		t.Errorf("expected a Teams link, got %+v", urgent)
	}

	action := v.Sections[1].Cards[0]
	if action.SourceLabel != "Outlook" || action.URL != "" {
		t.Errorf("unexpected outlook card %+v", action)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2026, 1, 1, 0, 7, 0, 0, time.UTC), "12:07 AM"},
		{time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC), "09:30 AM"},
		{time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), "12:00 PM"},
		{time.Date(2026, 1, 1, 23, 59, 0, 0, time.UTC), "11:59 PM"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.t, time.UTC); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestFormatTime_Location(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	got := FormatTime(time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC), loc)
	if got != "10:00 AM" {
		t.Errorf("expected 10:00 AM, got %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2026-10-19"); got != "Monday, October 19, 2026" {
		t.Errorf("unexpected date %q", got)
	}
	if got := FormatDate("yesterday"); got != "yesterday" {
		t.Errorf("expected unparseable date unchanged, got %q", got)
	}
}

func TestRender_Text(t *testing.T) {
	d := api.FallbackDigest(time.Date(2026, 10, 19, 16, 30, 0, 0, time.UTC))
	var buf bytes.Buffer
	if err := Render(&buf, Build(d, time.UTC), RenderOptions{Profile: termenv.Ascii}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Monday, October 19, 2026",
		"Today's Summary",
		"Urgent (1)",
		"Action Required (2)",
		"Information (1)",
		"Quarterly Review Meeting Scheduled",
		"View in Teams: https://teams.microsoft.com/...",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Urgent (1)") > strings.Index(out, "Information (1)") {
		t.Error("urgent section should come before information")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("ascii profile should not emit escape sequences")
	}
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Build(model.DailyDigest{}, time.UTC), RenderOptions{Profile: termenv.Ascii}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, EmptyTitle) {
		t.Errorf("expected empty state, got:\n%s", out)
	}
	if strings.Contains(out, "Today's Summary") || strings.Contains(out, "Urgent") {
		t.Errorf("empty digest should not render sections:\n%s", out)
	}
}
