// Package preferences is the client's durable key/value store, the Go
// counterpart of browser local storage.
//
// Two implementations satisfy Repository:
//   - SQLiteRepository, over the "preferences" table created by the embedded
//     goose migration.
//   - MemoryRepository, a map guarded by a mutex, for ephemeral sessions and tests.
//
// Both also implement Transactor, so multi-step updates (the quick-emoji
// migration) either apply completely or not at all.
//
// Get returns (nil, nil) when the key is absent; callers treat a nil value as
// "not stored". Delete of a missing key is not an error.
package preferences
