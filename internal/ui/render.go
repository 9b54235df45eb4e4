package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/tastemaker/internal/models"
	"github.com/desertthunder/tastemaker/internal/tasks"
)

// Recommendations renders a numbered list of suggested tracks.
func (p *Palette) Recommendations(tracks []models.Track) string {
	var b strings.Builder
	b.WriteString(p.Title(fmt.Sprintf("Recommendations (%d)", len(tracks))))
	b.WriteString("\n\n")

	if len(tracks) == 0 {
		b.WriteString(p.Warn("The model returned no usable tracks."))
		b.WriteString("\n")
		return b.String()
	}

	for i, t := range tracks {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, t.Descriptor())
	}
	return b.String()
}

// Progress renders a single pipeline update as one line.
func (p *Palette) Progress(u tasks.ProgressUpdate) string {
	switch u.Phase {
	case tasks.SearchTracks:
		return "   " + u.Message
	case tasks.Rollback:
		return p.Warn("↺ " + u.Message)
	case tasks.CreatePlaylist:
		return p.OK("📝 " + u.Message)
	default:
		return "• " + u.Message
	}
}

// Result renders the summary of a generated playlist, including unresolved tracks.
func (p *Palette) Result(r *models.PlaylistResult) string {
	if r == nil {
		return p.Err("No result available")
	}

	var b strings.Builder
	b.WriteString(p.OK("✓ Playlist created!"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "ID:    %s\n", r.PlaylistID)
	if r.PlaylistURL != "" {
		fmt.Fprintf(&b, "URL:   %s\n", r.PlaylistURL)
	}

	total := len(r.Added) + len(r.Unresolved)
	fmt.Fprintf(&b, "Added: %d/%d\n", len(r.Added), total)

	if len(r.Unresolved) > 0 {
		b.WriteString("\n")
		b.WriteString(p.Warn(fmt.Sprintf("Could not find %d tracks:", len(r.Unresolved))))
		for _, t := range r.Unresolved {
			fmt.Fprintf(&b, "\n  • %s", t.Descriptor())
		}
		b.WriteString("\n")
	}
	return b.String()
}
