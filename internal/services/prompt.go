package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/tastemaker/internal/models"
	"github.com/samber/lo"
)

const (
	DefaultRecommendationCount = 5

	promptFormat      = "Based on these songs: %s, suggest %d similar tracks for a new playlist."
	promptInstruction = "Reply with one track per line formatted as: Song Name - Artist Name. Do not number the lines or add any other text."

	// Separates name from artist in a completion line. Only the first occurrence counts.
	trackSeparator = " - "
)

// MalformedMode decides what happens to completion lines without a name/artist separator.
type MalformedMode string

const (
	// MalformedKeep keeps the whole line as a track name with no artist.
	MalformedKeep MalformedMode = "keep"
	// MalformedDiscard drops the line.
	MalformedDiscard MalformedMode = "discard"
)

// ParseMalformedMode maps a configuration value to a mode, defaulting to [MalformedKeep].
func ParseMalformedMode(s string) MalformedMode {
	if MalformedMode(strings.ToLower(strings.TrimSpace(s))) == MalformedDiscard {
		return MalformedDiscard
	}
	return MalformedKeep
}

var listMarker = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s+`)

// BuildPrompt renders the recommendation request for the given seed tracks.
// A non-positive count uses [DefaultRecommendationCount].
func BuildPrompt(tracks []models.Track, count int) string {
	if count <= 0 {
		count = DefaultRecommendationCount
	}

	seeds := lo.Map(tracks, func(t models.Track, _ int) string { return t.Descriptor() })
	return fmt.Sprintf(promptFormat, strings.Join(seeds, ", "), count) + "\n" + promptInstruction
}

// ParseRecommendations turns completion text into tracks, one per non-empty line, in order.
//
// Each line is split on the first " - " into name and artist. List markers and wrapping quotes are
// stripped first. Lines without a separator follow mode.
func ParseRecommendations(text string, mode MalformedMode) []models.Track {
	tracks := []models.Track{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))

		name, artist, ok := strings.Cut(line, trackSeparator)
		if !ok {
			if mode == MalformedDiscard {
				continue
			}
			if name = trimQuotes(line); name != "" {
				tracks = append(tracks, models.Track{Name: name})
			}
			continue
		}

		name = trimQuotes(name)
		if name == "" {
			continue
		}
		tracks = append(tracks, models.Track{Name: name, Artist: trimQuotes(artist)})
	}

	return tracks
}

func trimQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "\"“”"))
}
