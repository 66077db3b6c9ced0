// Package cli is the interactive herocards client.
//
// App runs a REPL over the sync engine together with two background loops:
// a connectivity watcher that pings the remote store and flushes unsynced
// local writes when it comes back, and a printer for sync events.
//
// Commands work offline where the engine allows it: profile edits and new
// cards are stored locally and sent later, while deletes, visibility changes,
// collections and statistics need the remote store.
package cli
