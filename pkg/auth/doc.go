// Package auth implements the OAuth token lifecycle for the cloud client:
// loading the persisted token, detecting expiry, refreshing on demand or
// proactively ahead of expiry, and persisting atomically after every
// refresh.
//
// # Expiry
//
// A token is treated as expired once expiry minus now is 5 minutes or
// less. It is proactively refreshed once expiry minus now is 1 hour or
// less, so a caller that only checks HasAuth rarely observes an expired
// token.
//
// # Failure semantics
//
// A failed refresh is reported to the caller but is not fatal: callers
// fall back to "no auth", which quiesces the coordinator and leaves the
// bridge running in an unauthenticated state until the user re-authorizes.
package auth
