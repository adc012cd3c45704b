// Package protolog implements the structured event trail emitted by the
// bridge's subsystems.
//
// Every reconciliation decision, committed auto-mode change, and auth
// refresh emits one Event through a Logger. The NoopLogger discards events; the
// SlogAdapter forwards them to an slog.Logger for console/journal
// consumption; the FileRecorder appends them as CBOR records to a durable
// file, matching the on-disk format the teacher protocol uses for its own
// event trail.
package protolog
