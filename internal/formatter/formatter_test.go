package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tastemaker/internal/models"
)

func sampleResult() *models.PlaylistResult {
	return &models.PlaylistResult{
		PlaylistID:  "pl1",
		PlaylistURL: "https://open.spotify.com/playlist/pl1",
		Added: []models.ResolvedTrack{
			{
				Requested: models.Track{Name: "Song One", Artist: "Artist One"},
				Matched:   models.Track{Name: "Song One", Artist: "Artist One", URI: "spotify:track:1"},
				Score:     1,
			},
			{
				Requested: models.Track{Name: "Song Two", Artist: "Artist, Two"},
				Matched:   models.Track{Name: "Song Two (Remastered)", Artist: "Artist, Two", URI: "spotify:track:2"},
				Score:     0.912,
			},
		},
		Unresolved: []models.Track{{Name: "Ghost", Artist: "Nobody"}},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleResult())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected header plus 3 rows, got %d: %q", len(lines), data)
		}
		if lines[0] != "Status,Name,Artist,Matched Name,Matched Artist,URI,Score" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if lines[1] != "added,Song One,Artist One,Song One,Artist One,spotify:track:1,1.000" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if !strings.Contains(lines[2], `"Artist, Two"`) {
			t.Errorf("expected quoted field with comma, got: %s", lines[2])
		}
		if lines[3] != "unresolved,Ghost,Nobody,,,," {
			t.Errorf("unexpected unresolved row: %s", lines[3])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleResult(), "Road Trip")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Road Trip",
			"[pl1](https://open.spotify.com/playlist/pl1)",
			"2 added, 1 not found",
			"1. Song One by Artist One",
			"2. Song Two (Remastered) by Artist, Two",
			"## Not Found",
			"- Ghost by Nobody",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown without URL or misses", func(t *testing.T) {
		data, _ := ExportToMarkdown(&models.PlaylistResult{PlaylistID: "pl2"}, "Empty")
		output := string(data)
		if !strings.Contains(output, "**Playlist**: pl2\n") {
			t.Errorf("expected bare playlist ID, got:\n%s", output)
		}
		if strings.Contains(output, "Not Found") {
			t.Errorf("unexpected Not Found section:\n%s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText([]models.Track{{Name: "A", Artist: "X"}, {Name: "B"}})
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		if got := string(data); got != "A - X\nB\n" {
			t.Errorf("unexpected text export: %q", got)
		}
	})
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"out.csv", CSV},
		{"OUT.CSV", CSV},
		{"notes/list.md", Markdown},
		{"list.markdown", Markdown},
		{"list.txt", Text},
		{"list", Text},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("writes CSV by extension and creates directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exports", "pl1.csv")

		format, err := WriteExport(sampleResult(), path, "Road Trip")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if format != CSV {
			t.Errorf("expected CSV, got %q", format)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected file to exist: %v", err)
		}
		if !strings.HasPrefix(string(data), "Status,") {
			t.Errorf("expected CSV content, got %q", data)
		}
	})

	t.Run("text export lists matched tracks", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pl1.txt")

		if _, err := WriteExport(sampleResult(), path, ""); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		data, _ := os.ReadFile(path)
		if got := string(data); got != "Song One - Artist One\nSong Two (Remastered) - Artist, Two\n" {
			t.Errorf("unexpected text export: %q", got)
		}
	})

	t.Run("reports write failures", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatal(err)
		}

		_, err := WriteExport(sampleResult(), filepath.Join(blocker, "nested", "out.md"), "x")
		if err == nil {
			t.Fatal("expected error when parent is a file")
		}
	})
}
