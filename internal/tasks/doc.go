// Package tasks turns seed tracks into a populated playlist.
//
// # Core Operations
//
// The [Generator] interface defines three operations:
//
//  1. [Generator.Recommend] : Seed tracks → completion → parsed recommendations
//     - Prompt text follows seed order
//     - Lines without a "Song - Artist" separator follow the configured malformed mode
//
//  2. [Generator.Generate] : Recommendations → playlist
//     - Resolves the user behind the bearer token
//     - Creates an empty playlist with the configured name, description and visibility
//     - Searches the catalog for each recommendation (first result wins)
//     - Appends the matched URIs in recommendation order
//
//  3. [Generator.GenerateFromLiked] : Recommend then Generate
//
// # Track Resolution
//
// Searches fan out over a bounded worker pool throttled by a [rate.Limiter]. Results are written back by
// index, so the playlist order never depends on which search finished first. The first failing search
// cancels the rest and aborts the run.
//
// A recommendation with no search result, or whose match scores below the configured minimum ([MatchScore]),
// is returned in [models.PlaylistResult.Unresolved].
//
// # Failure Handling
//
// Any upstream failure aborts the remaining stages and is returned unchanged. A playlist created before the
// failure stays in the user's library unless rollback is enabled, in which case it is unfollowed best-effort.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates. A nil channel disables reporting.
package tasks
