package dbx

import (
	"sync/atomic"
	"time"
)

var lastRevision atomic.Int64

// NextRevision returns a strictly increasing, non-zero number used to tag
// local writes that still have to be confirmed by the remote store.
func NextRevision() int64 {
	for {
		prev := lastRevision.Load()
		next := time.Now().UnixNano()
		if next <= prev {
			next = prev + 1
		}
		if lastRevision.CompareAndSwap(prev, next) {
			return next
		}
	}
}
