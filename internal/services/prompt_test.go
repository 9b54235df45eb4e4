package services

import (
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/tastemaker/internal/models"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("Seed Descriptors", func(t *testing.T) {
		prompt := BuildPrompt([]models.Track{{Name: "A", Artist: "X"}, {Name: "B", Artist: "Y"}}, 5)

		if !strings.Contains(prompt, "A by X, B by Y") {
			t.Errorf("expected seed descriptors in prompt, got %q", prompt)
		}
		if !strings.Contains(prompt, "suggest 5 similar tracks") {
			t.Errorf("expected count in prompt, got %q", prompt)
		}
		if !strings.Contains(prompt, "Song Name - Artist Name") {
			t.Errorf("expected format instruction in prompt, got %q", prompt)
		}
	})

	t.Run("Seed Order Drives Prompt Text", func(t *testing.T) {
		forward := []models.Track{{Name: "A", Artist: "X"}, {Name: "B", Artist: "Y"}}
		reversed := []models.Track{{Name: "B", Artist: "Y"}, {Name: "A", Artist: "X"}}

		first := BuildPrompt(forward, 5)
		second := BuildPrompt(reversed, 5)

		if !strings.Contains(second, "B by Y, A by X") {
			t.Errorf("expected reversed descriptors in prompt, got %q", second)
		}
		if first == second {
			t.Error("expected permuted seeds to change the prompt")
		}
		if again := BuildPrompt(forward, 5); again != first {
			t.Errorf("expected identical prompt for identical input, got %q and %q", first, again)
		}
	})

	t.Run("Bare Names And Default Count", func(t *testing.T) {
		prompt := BuildPrompt([]models.Track{{Name: "Solo"}}, 0)

		if !strings.Contains(prompt, "Based on these songs: Solo,") {
			t.Errorf("expected bare name in prompt, got %q", prompt)
		}
		if !strings.Contains(prompt, "suggest 5 similar") {
			t.Errorf("expected default count in prompt, got %q", prompt)
		}
	})
}

func TestParseRecommendations(t *testing.T) {
	tc := []struct {
		name string
		text string
		mode MalformedMode
		want []models.Track
	}{
		{
			name: "two lines",
			text: "Song1 - Artist1\nSong2 - Artist2",
			mode: MalformedKeep,
			want: []models.Track{{Name: "Song1", Artist: "Artist1"}, {Name: "Song2", Artist: "Artist2"}},
		},
		{
			name: "first separator only",
			text: "Song - Part 2 - Artist",
			mode: MalformedKeep,
			want: []models.Track{{Name: "Song", Artist: "Part 2 - Artist"}},
		},
		{
			name: "blank and whitespace lines skipped",
			text: "\n  A - X  \n\n\t\r\nB - Y\r\n",
			mode: MalformedKeep,
			want: []models.Track{{Name: "A", Artist: "X"}, {Name: "B", Artist: "Y"}},
		},
		{
			name: "list markers and quotes stripped",
			text: "1. \"Song1\" - Artist1\n2) Song2 - Artist2\n- Song3 - Artist3\n* “Song4” - Artist4\n• Song5 - Artist5",
			mode: MalformedKeep,
			want: []models.Track{
				{Name: "Song1", Artist: "Artist1"},
				{Name: "Song2", Artist: "Artist2"},
				{Name: "Song3", Artist: "Artist3"},
				{Name: "Song4", Artist: "Artist4"},
				{Name: "Song5", Artist: "Artist5"},
			},
		},
		{
			name: "hyphenated name without separator spacing",
			text: "Anti-Hero - Taylor Swift",
			mode: MalformedKeep,
			want: []models.Track{{Name: "Anti-Hero", Artist: "Taylor Swift"}},
		},
		{
			name: "malformed kept as name",
			text: "Just A Title\nA - X",
			mode: MalformedKeep,
			want: []models.Track{{Name: "Just A Title"}, {Name: "A", Artist: "X"}},
		},
		{
			name: "malformed discarded",
			text: "Here are some songs:\nA - X",
			mode: MalformedDiscard,
			want: []models.Track{{Name: "A", Artist: "X"}},
		},
		{
			name: "empty text",
			text: "",
			mode: MalformedKeep,
			want: []models.Track{},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRecommendations(tt.text, tt.mode)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRecommendations() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseMalformedMode(t *testing.T) {
	if ParseMalformedMode("discard") != MalformedDiscard {
		t.Error("expected discard mode")
	}
	if ParseMalformedMode(" DISCARD ") != MalformedDiscard {
		t.Error("expected case-insensitive discard mode")
	}
	if ParseMalformedMode("") != MalformedKeep || ParseMalformedMode("other") != MalformedKeep {
		t.Error("expected keep as the default mode")
	}
}
