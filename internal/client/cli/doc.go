// Package cli provides the moodisland terminal client.
//
// It wires configuration, the local preference database, the state store,
// the HTTP API client and the router into an interactive REPL. Typical flow:
// migrate legacy preferences, restore a remembered session, start a
// background connectivity watcher, then execute user commands that navigate
// between pages and change state.
//
// The cobra command tree (NewRootCommand) also exposes the dev server
// (serve), the route table (routes) and the one-shot preference migration
// (migrate).
//
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
