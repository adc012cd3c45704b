// Package retry implements the transient-failure classifier and the
// exponential-backoff-with-jitter primitive shared by every cloud-facing
// call in this bridge.
//
// # Classification
//
// An error is transient if it is a network-layer failure (timeout,
// connection reset/refused, host-not-found), an HTTP 429, or an HTTP 5xx.
// Everything else is permanent and is not retried.
//
// # Backoff
//
//  1. Initial delay: 1 second
//  2. Exponential increase: 2s, 4s, 8s (multiplier 2)
//  3. Maximum delay: 10 seconds
//  4. Jitter: actual_delay = base_delay * random(0, 1)
//
// # Attempts
//
// Do makes at most MaxRetries+1 attempts. It returns as soon as fn succeeds
// or as soon as fn returns a permanent error.
package retry
