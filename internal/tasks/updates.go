package tasks

import (
	"fmt"

	"github.com/desertthunder/tastemaker/internal/models"
)

// ProgressUpdate represents a progress event during playlist generation.
//
// Used to send real-time updates to the CLI for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	RequestRecommendations Phase = iota
	ResolveUser
	CreatePlaylist
	SearchTracks
	PopulatePlaylist
	Rollback
)

func (p Phase) String() string {
	switch p {
	case RequestRecommendations:
		return "recommend"
	case ResolveUser:
		return "resolve_user"
	case CreatePlaylist:
		return "create_playlist"
	case SearchTracks:
		return "search_tracks"
	case PopulatePlaylist:
		return "populate_playlist"
	case Rollback:
		return "rollback"
	default:
		return ""
	}
}

func recommendUpdate(seeds int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RequestRecommendations,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Requesting recommendations from %d seed tracks...", seeds),
	}
}

func resolveUserUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveUser,
		Step:    1,
		Total:   1,
		Message: "Resolving user profile...",
	}
}

func createPlaylistUpdate(pl *models.Playlist, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", name, pl.ID),
		Data:    pl,
	}
}

func searchTrackUpdate(step, total int, tr models.Track, found bool) ProgressUpdate {
	mark := "✓"
	if !found {
		mark = "✗"
	}
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s", step, total, mark, tr.Descriptor()),
		Data:    tr,
	}
}

func populateUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PopulatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d tracks to playlist...", count),
	}
}

func rollbackUpdate(pl *models.Playlist, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Rollback,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Removing playlist %s after failure: %v", pl.ID, err),
	}
}
