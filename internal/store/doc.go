// Package store persists bisect sessions across process invocations.
//
// Each CLI command is a separate process, so the session record on disk is
// the sole source of truth: commands load, mutate and save. Records are JSON
// files written atomically, one per session id, plus a "current" pointer
// naming the session the verdict commands operate on by default.
//
// Two guarantees beyond plain serialization:
//   - Saves carry a monotonically increasing revision; a save whose revision
//     does not match the record on disk is rejected as stale, which guards
//     against two processes mutating the same session.
//   - Loads validate structure before resuming: required fields present,
//     delta entries intact (SHA-256 digest), and the bounds/state derivable
//     by replaying the recorded history. A record failing validation is
//     corrupt and the engine refuses to resume from it.
//
// Unknown fields in a record are ignored so older binaries can read records
// written by newer ones.
package store
