package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/desertthunder/tastemaker/internal/models"
	"github.com/desertthunder/tastemaker/internal/shared"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

// searchJob is one recommendation waiting for a catalog search.
type searchJob struct {
	index int
	track models.Track
}

// searchResult carries the search outcome back to its recommendation slot.
type searchResult struct {
	index int
	match *models.Track
	err   error
}

// Generate materializes recs into a new playlist owned by the token's user.
//
// Stages run in order: resolve user, create playlist, search tracks, populate playlist. A failure in
// any stage aborts the rest. Searches with no usable match are reported in the result's Unresolved list
// and never abort the run. When nothing resolves, the populate stage still runs but the catalog sends no
// request for an empty URI set, so the playlist stays empty and every track is returned in Unresolved.
func (e *PlaylistEngine) Generate(ctx context.Context, progress chan<- ProgressUpdate, token string, recs []models.Track) (*models.PlaylistResult, error) {
	if token == "" {
		return nil, shared.ErrMissingToken
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: no tracks to add", shared.ErrInvalidInput)
	}
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrUpstreamFetch)
	}

	e.sendProgress(progress, resolveUserUpdate())
	user, err := e.catalog.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}

	playlist, err := e.catalog.CreatePlaylist(ctx, token, user.ID, e.opts.Playlist)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, createPlaylistUpdate(playlist, e.opts.Playlist.Name))
	e.logger.Info("playlist created", "user", user.ID, "playlist", playlist.ID)

	added, unresolved, err := e.resolveTracks(ctx, progress, token, recs)
	if err != nil {
		e.rollback(ctx, progress, token, playlist, err)
		return nil, err
	}

	result := &models.PlaylistResult{
		PlaylistID:  playlist.ID,
		PlaylistURL: playlist.URL,
		Added:       added,
		Unresolved:  unresolved,
	}

	uris := result.URIs()
	e.sendProgress(progress, populateUpdate(len(uris)))
	if err := e.catalog.AddTracks(ctx, token, playlist.ID, uris); err != nil {
		e.rollback(ctx, progress, token, playlist, err)
		return nil, err
	}

	e.logger.Info("playlist populated", "playlist", playlist.ID, "added", len(added), "unresolved", len(unresolved))
	return result, nil
}

// rollback unfollows a playlist left behind by a failed run when enabled. Failures are logged only.
func (e *PlaylistEngine) rollback(ctx context.Context, progress chan<- ProgressUpdate, token string, pl *models.Playlist, cause error) {
	if !e.opts.RollbackOnFailure {
		e.logger.Warn("playlist left in place after failure", "playlist", pl.ID, "error", cause)
		return
	}

	e.sendProgress(progress, rollbackUpdate(pl, cause))
	if err := e.catalog.UnfollowPlaylist(context.WithoutCancel(ctx), token, pl.ID); err != nil {
		e.logger.Warn("rollback failed", "playlist", pl.ID, "error", err)
		return
	}
	e.logger.Info("playlist rolled back", "playlist", pl.ID)
}

// resolveTracks searches the catalog for each recommendation with a bounded, rate-limited worker pool.
//
// Results are collected by index, so added tracks keep recommendation order regardless of completion order.
// The first search error cancels the outstanding searches and is returned.
func (e *PlaylistEngine) resolveTracks(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	token string,
	recs []models.Track,
) ([]models.ResolvedTrack, []models.Track, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var limiter *rate.Limiter
	if e.opts.SearchRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(e.opts.SearchRate), 1)
	}

	jobs := make(chan searchJob, len(recs))
	results := make(chan searchResult, len(recs))
	for i, track := range recs {
		jobs <- searchJob{index: i, track: track}
	}
	close(jobs)

	var wg sync.WaitGroup
	for range min(e.opts.SearchWorkers, len(recs)) {
		wg.Add(1)
		go e.searchWorker(ctx, &wg, token, limiter, jobs, results)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	matches := make([]*models.Track, len(recs))
	var firstErr error
	completed := 0
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}

		completed++
		matches[res.index] = res.match
		e.sendProgress(progress, searchTrackUpdate(completed, len(recs), recs[res.index], res.match != nil))
	}

	if firstErr != nil {
		return nil, nil, firstErr
	}

	added := make([]models.ResolvedTrack, 0, len(recs))
	unresolved := make([]models.Track, 0)
	for i, rec := range recs {
		match := matches[i]
		if match == nil || match.URI == "" {
			unresolved = append(unresolved, rec)
			continue
		}

		score := MatchScore(rec, *match)
		if e.opts.MinMatchScore > 0 && score < e.opts.MinMatchScore {
			e.logger.Debug("match below threshold", "requested", rec.Descriptor(), "matched", match.Descriptor(), "score", score)
			unresolved = append(unresolved, rec)
			continue
		}

		added = append(added, models.ResolvedTrack{Requested: rec, Matched: *match, Score: score})
	}

	e.logger.Debug("tracks resolved", "added", len(added), "unresolved", lo.Map(unresolved, func(t models.Track, _ int) string {
		return t.Descriptor()
	}))
	return added, unresolved, nil
}

// searchWorker is a worker goroutine that searches the catalog for jobs from the jobs channel.
func (e *PlaylistEngine) searchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	token string,
	limiter *rate.Limiter,
	jobs <-chan searchJob,
	results chan<- searchResult,
) {
	defer wg.Done()

	for job := range jobs {
		if err := ctx.Err(); err != nil {
			results <- searchResult{index: job.index, err: err}
			continue
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				results <- searchResult{index: job.index, err: err}
				continue
			}
		}

		match, err := e.catalog.SearchTrack(ctx, token, job.track.SearchQuery())
		results <- searchResult{index: job.index, match: match, err: err}
	}
}

// MatchScore rates how closely a catalog track matches a requested one, from 0 to 1.
//
// Both sides are compared as normalized "name artist" strings using Jaro-Winkler similarity. A request
// without an artist is compared on names only.
func MatchScore(requested, matched models.Track) float64 {
	want := normalize(requested.Name + " " + requested.Artist)
	got := normalize(matched.Name + " " + matched.Artist)
	if requested.Artist == "" {
		got = normalize(matched.Name)
	}
	if want == "" || got == "" {
		return 0
	}
	return strutil.Similarity(want, got, metrics.NewJaroWinkler())
}

func normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
