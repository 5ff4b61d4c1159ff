package digest

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colors match the web stylesheet.
var (
	colorUrgent = lipgloss.Color("#d13438")
	colorAction = lipgloss.Color("#ffaa44")
	colorInfo   = lipgloss.Color("#6264a7")
	colorMuted  = lipgloss.Color("#605e5c")
)

// RenderOptions controls terminal output.
type RenderOptions struct {
	// Profile is the color profile; termenv.Ascii disables styling.
	Profile termenv.Profile
	// Width wraps card summaries when positive.
	Width int
}

type textStyles struct {
	heading lipgloss.Style
	section map[string]lipgloss.Style
	muted   lipgloss.Style
	title   lipgloss.Style
	body    lipgloss.Style
}

func newTextStyles(r *lipgloss.Renderer, width int) textStyles {
	s := textStyles{
		heading: r.NewStyle().Bold(true).Foreground(colorInfo),
		section: map[string]lipgloss.Style{
			KeyUrgent:        r.NewStyle().Bold(true).Foreground(colorUrgent),
			KeyAction:        r.NewStyle().Bold(true).Foreground(colorAction),
			KeyInfo:          r.NewStyle().Bold(true).Foreground(colorInfo),
			KeyUncategorized: r.NewStyle().Bold(true).Foreground(colorMuted),
		},
		muted: r.NewStyle().Foreground(colorMuted),
		title: r.NewStyle().Bold(true),
		body:  r.NewStyle().PaddingLeft(2),
	}
	if width > 4 {
		s.body = s.body.Width(width)
	}
	return s
}

// Render writes v to w for a terminal.
func Render(w io.Writer, v View, opts RenderOptions) error {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(opts.Profile))
	st := newTextStyles(r, opts.Width)

	var b strings.Builder
	b.WriteString(st.heading.Render("Daily Digest"))
	if v.Date != "" {
		b.WriteString(st.muted.Render(" • " + v.Date))
	}
	b.WriteString("\n\n")

	if v.Empty {
		b.WriteString(st.title.Render(EmptyTitle) + "\n")
		b.WriteString(st.muted.Render(EmptyMessage) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString(st.title.Render("Today's Summary") + "\n")
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s\n\n",
		st.section[KeyUrgent].Render(fmt.Sprint(v.Summary.UrgentCount)), st.muted.Render("Urgent"),
		st.section[KeyAction].Render(fmt.Sprint(v.Summary.ActionCount)), st.muted.Render("Action Required"),
		st.section[KeyInfo].Render(fmt.Sprint(v.Summary.InfoCount)), st.muted.Render("Information"),
	)

	for _, s := range v.Sections {
		b.WriteString(st.section[s.Key].Render(fmt.Sprintf("%s %s (%d)", s.Icon, s.Label, s.Count())) + "\n")
		for _, c := range s.Cards {
			fmt.Fprintf(&b, "  %s  %s\n",
				st.muted.Render(fmt.Sprintf("%s %s • %s", c.SourceIcon, c.SourceLabel, c.SourceDetails)),
				st.muted.Render(c.Time),
			)
			b.WriteString("  " + st.title.Render(c.Title) + "\n")
			b.WriteString(st.body.Render(c.Summary) + "\n")
			if c.URL != "" {
				b.WriteString("  " + st.muted.Render(c.LinkLabel+": "+c.URL) + "\n")
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
