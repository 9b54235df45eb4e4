// Package models defines the entities that flow through one request of the tastemaker relay.
//
// Every value here lives for a single HTTP request/response cycle; nothing is persisted.
//
//   - [Track] : Song descriptor from the catalog (with ID and URI) or from completion text (name and artist only)
//   - [Playlist] : Playlist created on the provider side
//   - [ResolvedTrack] : A recommendation paired with the catalog match its search returned
//   - [PlaylistResult] : Outcome of a generation run, including the recommendations that could not be resolved
//   - [TokenPayload] : Token response from the identity provider
//   - [UserProfile] : Provider user identity, with the raw body kept for pass-through
package models
