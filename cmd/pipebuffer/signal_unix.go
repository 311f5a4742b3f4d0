//go:build linux || darwin

package main

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// notifyStats routes SIGUSR1 to ch.
func notifyStats(ch chan<- os.Signal) bool {
	signal.Notify(ch, unix.SIGUSR1)
	return true
}
