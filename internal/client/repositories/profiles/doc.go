// Package profiles is the local cache collection for User records, keyed by
// identity.
//
// Rows written by the client itself (Put) are flagged pending with a write
// revision until the remote store confirms them (MarkSynced). Copies fetched
// from the remote store go through Refresh, which never overwrites a pending
// row, so an unconfirmed local edit is not lost to an older remote copy.
//
// Every driver failure is reported wrapped in common.ErrStorageUnavailable.
package profiles
