// Package services wraps the two upstream systems the relay talks to: the music provider (Spotify) and an
// OpenAI-compatible completion endpoint.
//
// # Interfaces
//
//   - [Authenticator] : OAuth grants against the provider accounts service
//   - [Catalog] : Library reads and playlist writes with a caller-supplied bearer token
//   - [Recommender] : Completion call plus parsing into [models.Track] values
//
// # Spotify Implementation
//
// [SpotifyService] uses [oauth2.Config] for the authorization-code and refresh grants and
// [clientcredentials.Config] for app-only tokens. Client credentials are sent in the Authorization header,
// so a code exchange is exactly one request to the token endpoint.
//
// The service never stores user tokens. Every catalog call passes the token it was given, which keeps a
// single instance safe to share between concurrent requests.
//
// # Completion Implementation
//
// [CompletionService] posts one user message to {base_url}/chat/completions and reads
// choices.0.message.content with gjson. [BuildPrompt] renders the request and [ParseRecommendations]
// reads the "Song - Artist" lines back.
//
// # Error Handling
//
// Services return sentinel errors from the shared package, wrapped with upstream detail:
//   - [shared.ErrMissingCode] : Empty authorization code
//   - [shared.ErrMissingToken] : Empty bearer token, no request made
//   - [shared.ErrUpstreamAuth] : Token endpoint rejected a grant
//   - [shared.ErrUpstreamFetch] : Web API transport failure or non-2xx response
//   - [shared.ErrUpstreamCompletion] : Completion transport failure, non-2xx or empty content
package services
