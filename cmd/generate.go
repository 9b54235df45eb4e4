package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/tastemaker/internal/formatter"
	"github.com/desertthunder/tastemaker/internal/services"
	"github.com/desertthunder/tastemaker/internal/shared"
	"github.com/desertthunder/tastemaker/internal/tasks"
	"github.com/urfave/cli/v3"
)

var newState = shared.GenerateID

// Recommend prints tracks similar to the "Song - Artist" seeds given as arguments.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}

	seeds := services.ParseRecommendations(strings.Join(cmd.Args().Slice(), "\n"), services.MalformedKeep)
	if len(seeds) == 0 {
		return fmt.Errorf("%w: at least one seed track is required", shared.ErrInvalidInput)
	}
	if n := int(cmd.Int("count")); n > 0 {
		r.config.Completion.Count = n
	}

	r.logger.Info("requesting recommendations", "seeds", len(seeds))

	recs, err := r.generator().Recommend(ctx, nil, seeds)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(recs, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", r.palette.Recommendations(recs))
}

// Generate seeds recommendations from the user's liked songs and builds a playlist, printing progress as it goes.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}
	if name := cmd.String("name"); name != "" {
		r.config.Playlist.Name = name
	}
	if err := r.spotify(); err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	token := cmd.String("token")
	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = r.config.Spotify.LikedLimit
	}

	r.logger.Info("fetching liked songs", "limit", limit)
	liked, err := r.catalog.LikedTracks(ctx, token, limit)
	if err != nil {
		return err
	}

	useJSON := cmd.Bool("json")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if !useJSON {
				r.writePlain("%s\n", r.palette.Progress(update))
			}
		}
	}()

	result, err := r.generator().GenerateFromLiked(ctx, progressCh, token, liked)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if path := cmd.String("export"); path != "" {
		format, err := formatter.WriteExport(result, path, r.config.Playlist.Name)
		if err != nil {
			return err
		}
		r.logger.Info("exported playlist", "path", path, "format", format)
	}

	if useJSON {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}
	return r.writePlain("\n%s", r.palette.Result(result))
}
