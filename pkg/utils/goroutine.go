package utils

import "log"

// GoSafe runs fn in a goroutine and recovers from panics so a single
// misbehaving task cannot crash the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic in goroutine: %v", r)
			}
		}()
		fn()
	}()
}
