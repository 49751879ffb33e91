// Package cli provides the interactive Scribe command-line client.
//
// It wires configuration, the two-tier session storage, the HTTP client with
// its token-refresh interceptor, and an interactive REPL. Typical flow: a
// remembered session is hydrated on startup, then the user browses the feed
// and, once logged in, composes and manages posts.
//
// Key features:
//   - Register / Login (with a remember choice) / Logout
//   - Browse the post feed with cursor paging
//   - Compose, show and delete posts
//   - View and edit profiles (avatar upload included)
//
// Every command routes through the navigation guard, so guest-only,
// login-required and owner-only rules apply exactly as in the web client.
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
