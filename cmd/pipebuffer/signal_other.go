//go:build !linux && !darwin

package main

import "os"

// notifyStats reports that no stats signal exists on this platform.
func notifyStats(chan<- os.Signal) bool {
	return false
}
