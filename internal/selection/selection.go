// Package selection implements the grouped checkbox multi-select used for
// both the channel and the folder pickers.
//
// Selections are ordered id lists. The "select all" state is always derived
// from the selection and the candidates, never stored.
package selection

import (
	"fmt"
	"slices"

	"github.com/bryan-buckman/rewind365/internal/model"
)

// Widget describes one picker over candidates of type T.
type Widget[T any] struct {
	Title          string // form label above the list
	SelectAllLabel string
	Noun           string // singular, used in the "N <noun>s selected" caption

	// ID returns a candidate's unique id.
	ID func(T) string
	// Label returns the display name of a candidate.
	Label func(T) string
	// Group returns the grouping label; empty means Ungrouped.
	Group func(T) string

	Ungrouped     string
	ShowUngrouped bool
}

// Group is one labeled sub-list.
type Group[T any] struct {
	Label string
	Items []T
}

// Toggle removes id from selection if present and appends it otherwise.
// The input slice is not modified.
func Toggle(selection []string, id string) []string {
	if slices.Contains(selection, id) {
		out := make([]string, 0, len(selection)-1)
		for _, s := range selection {
			if s != id {
				out = append(out, s)
			}
		}
		return out
	}
	out := make([]string, 0, len(selection)+1)
	out = append(out, selection...)
	return append(out, id)
}

// AllSelected reports whether the select-all box is checked.
func (w Widget[T]) AllSelected(candidates []T, selection []string) bool {
	return len(selection) == len(candidates)
}

// ToggleAll returns the selection after clicking select-all: empty when
// everything was selected, every candidate id in candidate order otherwise.
func (w Widget[T]) ToggleAll(candidates []T, selection []string) []string {
	if w.AllSelected(candidates, selection) {
		return []string{}
	}
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, w.ID(c))
	}
	return ids
}

// Groups partitions candidates by group label in first-seen order, keeping
// input order inside each group.
func (w Widget[T]) Groups(candidates []T) []Group[T] {
	var groups []Group[T]
	index := make(map[string]int)
	for _, c := range candidates {
		label := w.Group(c)
		if label == "" {
			label = w.Ungrouped
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group[T]{Label: label})
		}
		groups[i].Items = append(groups[i].Items, c)
	}
	return groups
}

// View is the render model for a picker.
type View struct {
	Title          string
	SelectAllLabel string
	AllSelected    bool
	Groups         []GroupView
	SelectedCount  int
	Caption        string // empty when nothing is selected
}

// GroupView is one rendered group.
type GroupView struct {
	Label       string
	ShowHeading bool
	Items       []ItemView
}

// ItemView is one checkbox.
type ItemView struct {
	ID      string
	Label   string
	Checked bool
}

// View builds the render model for candidates and selection.
func (w Widget[T]) View(candidates []T, selection []string) View {
	selected := make(map[string]bool, len(selection))
	for _, id := range selection {
		selected[id] = true
	}

	v := View{
		Title:          w.Title,
		SelectAllLabel: w.SelectAllLabel,
		AllSelected:    w.AllSelected(candidates, selection),
		SelectedCount:  len(selection),
	}
	for _, g := range w.Groups(candidates) {
		gv := GroupView{
			Label:       g.Label,
			ShowHeading: g.Label != w.Ungrouped || w.ShowUngrouped,
		}
		for _, c := range g.Items {
			id := w.ID(c)
			gv.Items = append(gv.Items, ItemView{ID: id, Label: w.Label(c), Checked: selected[id]})
		}
		v.Groups = append(v.Groups, gv)
	}
	if n := len(selection); n > 0 {
		noun := w.Noun
		if n != 1 {
			noun += "s"
		}
		v.Caption = fmt.Sprintf("%d %s selected", n, noun)
	}
	return v
}

// Channels is the Teams channel picker. Channels are grouped by team.
var Channels = Widget[model.Channel]{
	Title:          "Select Teams Channels to Monitor",
	SelectAllLabel: "Select All Channels",
	Noun:           "channel",
	ID:             func(c model.Channel) string { return c.ID },
	Label:          func(c model.Channel) string { return c.Name },
	Group:          func(c model.Channel) string { return c.TeamName },
	Ungrouped:      "Other Channels",
	ShowUngrouped:  true,
}

// Folders is the Outlook folder picker. Folders are grouped by parent
// folder; top-level folders are listed without a heading.
var Folders = Widget[model.Folder]{
	Title:          "Select Outlook Folders to Monitor",
	SelectAllLabel: "Select All Folders",
	Noun:           "folder",
	ID:             func(f model.Folder) string { return f.ID },
	Label:          func(f model.Folder) string { return f.Name },
	Group:          func(f model.Folder) string { return f.ParentFolderName },
	Ungrouped:      "Main Folders",
	ShowUngrouped:  false,
}

// Has reports whether id belongs to one of the candidates.
func (w Widget[T]) Has(candidates []T, id string) bool {
	return slices.ContainsFunc(candidates, func(c T) bool { return w.ID(c) == id })
}

// FirstIDs returns the ids of at most n leading candidates.
func (w Widget[T]) FirstIDs(candidates []T, n int) []string {
	if n > len(candidates) {
		n = len(candidates)
	}
	ids := make([]string, 0, n)
	for _, c := range candidates[:n] {
		ids = append(ids, w.ID(c))
	}
	return ids
}
