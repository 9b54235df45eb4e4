// package formatter exports generated playlists and recommendations to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/tastemaker/internal/models"
)

// Format names an export format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// FormatFromPath picks a format from the file extension. Unknown extensions export as plain text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV
	case ".md", ".markdown":
		return Markdown
	default:
		return Text
	}
}

// ExportToCSV converts a PlaylistResult to CSV with one row per recommendation, added tracks first.
//
// Columns: Status, Name, Artist, Matched Name, Matched Artist, URI, Score
func ExportToCSV(result *models.PlaylistResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Status", "Name", "Artist", "Matched Name", "Matched Artist", "URI", "Score"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, a := range result.Added {
		record := []string{
			"added",
			a.Requested.Name,
			a.Requested.Artist,
			a.Matched.Name,
			a.Matched.Artist,
			a.Matched.URI,
			strconv.FormatFloat(a.Score, 'f', 3, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	for _, t := range result.Unresolved {
		if err := writer.Write([]string{"unresolved", t.Name, t.Artist, "", "", "", ""}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a PlaylistResult to Markdown under the given title.
func ExportToMarkdown(result *models.PlaylistResult, title string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	if result.PlaylistURL != "" {
		buf.WriteString(fmt.Sprintf("**Playlist**: [%s](%s)\n", result.PlaylistID, result.PlaylistURL))
	} else {
		buf.WriteString(fmt.Sprintf("**Playlist**: %s\n", result.PlaylistID))
	}
	buf.WriteString(fmt.Sprintf("**Tracks**: %d added, %d not found\n\n", len(result.Added), len(result.Unresolved)))

	buf.WriteString("## Tracks\n\n")
	for i, a := range result.Added {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, a.Matched.Descriptor()))
	}

	if len(result.Unresolved) > 0 {
		buf.WriteString("\n## Not Found\n\n")
		for _, t := range result.Unresolved {
			buf.WriteString(fmt.Sprintf("- %s\n", t.Descriptor()))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders tracks one per line in the "Song - Artist" shape the recommend command accepts.
func ExportToText(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	for _, t := range tracks {
		if t.Artist == "" {
			buf.WriteString(t.Name + "\n")
			continue
		}
		buf.WriteString(fmt.Sprintf("%s - %s\n", t.Name, t.Artist))
	}
	return buf.Bytes(), nil
}

// WriteExport writes result to path in the format its extension selects and returns that format.
func WriteExport(result *models.PlaylistResult, path, title string) (Format, error) {
	if path == "" {
		path = result.PlaylistID + "_tracks.txt"
	}

	format := FormatFromPath(path)

	var data []byte
	var err error
	switch format {
	case CSV:
		data, err = ExportToCSV(result)
	case Markdown:
		data, err = ExportToMarkdown(result, title)
	default:
		matched := make([]models.Track, 0, len(result.Added))
		for _, a := range result.Added {
			matched = append(matched, a.Matched)
		}
		data, err = ExportToText(matched)
	}
	if err != nil {
		return format, fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return format, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return format, fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return format, nil
}
