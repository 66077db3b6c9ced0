// Package services contains the application services of the herocards client.
//
// The SyncEngine decides, for every read and write of a profile or a card,
// whether to serve the local cache, when to reconcile with the remote store
// and how optimistic local writes are confirmed.
//
// # Reads
//
// Cached profiles and card lists are returned at once and refreshed in the
// background; a remote copy replaces the cached one as a whole and never
// replaces a record with unconfirmed local edits. A card is served from cache
// only to its owner; every other visibility decision goes to the remote
// store. Collection membership is never cached.
//
// # Writes
//
// Profiles and new cards are written locally and sent in the background.
// Deleting a card and changing its visibility wait for the remote answer and
// return its error; the caller owns the rollback (RestoreCard,
// RevertCardVisibility). A rollback puts the card back in the pending state it
// had before the failed call, so an earlier unsent write is still flushed.
// Collection changes are remote-only.
//
// # Background work
//
// Background failures never reach the caller. They are logged and published
// on Events. Purge cancels and joins background work before emptying the
// cache, so nothing fetched for a previous session lands afterwards.
package services
