// Package cards is the local cache collection for Card records, keyed by
// card id and filtered by owner identity.
//
// # Data model
//
// Each row carries a schema_version tag. Rows with a tag lower than
// models.CurrentSchemaVersion are legacy (written before soft delete existed,
// is_active is NULL). A NULL is_active reads as active; every other column is
// returned as stored and callers decide whether to migrate the record
// (models.Card.Migrate) and write it back. In-place edits stamp the row with
// the current schema version.
//
// # Pending writes
//
// Put, SetVisibility and Deactivate flag the row pending with a fresh write
// revision. MarkSynced clears the flag only when the revision is still the
// latest write. SetVisibility and Deactivate also report the pending value
// they replaced, so a compensating write can tell whether the row had an
// earlier unconfirmed write. Refresh, used for copies fetched from the remote store, never
// touches a pending row.
//
// # Errors
//
// Absent rows are reported as nil results. Driver failures are wrapped in
// common.ErrStorageUnavailable.
package cards
