// package tasks implements the recommendation-to-playlist pipeline.
//
// The core abstraction is Generator, which asks the completion model for tracks and materializes them into a
// playlist. Operations emit progress updates via channels for non-blocking status reporting to the CLI.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tastemaker/internal/models"
	"github.com/desertthunder/tastemaker/internal/services"
	"github.com/desertthunder/tastemaker/internal/shared"
	"github.com/samber/lo"
)

// Generator defines the recommendation and playlist operations.
type Generator interface {
	// Recommend builds a prompt from the seed tracks and returns the parsed completion.
	Recommend(ctx context.Context, progress chan<- ProgressUpdate, seeds []models.Track) ([]models.Track, error)

	// Generate creates a playlist for the token's owner and fills it with the catalog matches of recs.
	Generate(ctx context.Context, progress chan<- ProgressUpdate, token string, recs []models.Track) (*models.PlaylistResult, error)

	// GenerateFromLiked chains Recommend and Generate.
	GenerateFromLiked(ctx context.Context, progress chan<- ProgressUpdate, token string, liked []models.Track) (*models.PlaylistResult, error)
}

// EngineOpts tunes the pipeline.
type EngineOpts struct {
	Playlist          services.PlaylistOpts // Playlist created by Generate
	Count             int                   // Recommendations requested per prompt
	SearchWorkers     int                   // Concurrent catalog searches (default: 1)
	SearchRate        float64               // Searches per second; 0 disables throttling
	MinMatchScore     float64               // Matches scoring below this are unresolved; 0 disables
	RollbackOnFailure bool                  // Unfollow the created playlist when a later stage fails
}

// EngineOptsFromConfig reads [EngineOpts] from the completion and playlist sections of conf.
func EngineOptsFromConfig(conf *shared.Config) EngineOpts {
	return EngineOpts{
		Playlist: services.PlaylistOpts{
			Name:        conf.Playlist.Name,
			Description: conf.Playlist.Description,
			Public:      conf.Playlist.Public,
		},
		Count:             conf.Completion.Count,
		SearchWorkers:     conf.Playlist.SearchWorkers,
		SearchRate:        conf.Playlist.SearchRate,
		MinMatchScore:     conf.Playlist.MinMatchScore,
		RollbackOnFailure: conf.Playlist.RollbackOnFailure,
	}
}

// PlaylistEngine implements [Generator].
//
// It keeps no per-request state, so one engine serves concurrent requests.
type PlaylistEngine struct {
	catalog     services.Catalog
	recommender services.Recommender
	opts        EngineOpts
	logger      *log.Logger
}

// NewPlaylistEngine creates a new PlaylistEngine with the provided services.
func NewPlaylistEngine(catalog services.Catalog, recommender services.Recommender, opts EngineOpts, logger *log.Logger) *PlaylistEngine {
	if opts.SearchWorkers <= 0 {
		opts.SearchWorkers = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &PlaylistEngine{
		catalog:     catalog,
		recommender: recommender,
		opts:        opts,
		logger:      logger,
	}
}

// sendProgress sends a progress update without blocking.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Recommend requests recommendations for seeds. Seed order determines prompt text; seeds without a name
// are skipped.
func (e *PlaylistEngine) Recommend(ctx context.Context, progress chan<- ProgressUpdate, seeds []models.Track) ([]models.Track, error) {
	seeds = lo.Filter(seeds, func(t models.Track, _ int) bool { return strings.TrimSpace(t.Name) != "" })
	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w: no seed tracks", shared.ErrInvalidInput)
	}
	if e.recommender == nil {
		return nil, fmt.Errorf("%w: completion service not initialized", shared.ErrUpstreamCompletion)
	}

	e.sendProgress(progress, recommendUpdate(len(seeds)))

	prompt := services.BuildPrompt(seeds, e.opts.Count)
	e.logger.Debug("requesting recommendations", "seeds", len(seeds), "count", e.opts.Count)

	recs, err := e.recommender.Recommend(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("parsed recommendations", "count", len(recs))
	return recs, nil
}

// GenerateFromLiked recommends from the liked tracks and materializes the result.
//
// A missing token fails before the completion call is made.
func (e *PlaylistEngine) GenerateFromLiked(ctx context.Context, progress chan<- ProgressUpdate, token string, liked []models.Track) (*models.PlaylistResult, error) {
	if token == "" {
		return nil, shared.ErrMissingToken
	}

	recs, err := e.Recommend(ctx, progress, liked)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: completion produced no usable tracks", shared.ErrUpstreamCompletion)
	}

	return e.Generate(ctx, progress, token, recs)
}
