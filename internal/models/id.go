package models

import (
	"sync/atomic"
	"time"
)

var lastID atomic.Int64

// NewTimeID returns a millisecond-timestamp identifier, bumped past the
// previous one when two calls land on the same millisecond.
func NewTimeID() int64 {
	now := time.Now().UnixMilli()
	for {
		prev := lastID.Load()
		if now <= prev {
			now = prev + 1
		}
		if lastID.CompareAndSwap(prev, now) {
			return now
		}
	}
}
