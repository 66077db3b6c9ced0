// Package session keeps local data of one identity from being read by
// another. The Guard remembers the last signed-in identity in a
// session-scoped Slot and purges the local cache before a different identity
// can read it, and again on sign-out.
package session
