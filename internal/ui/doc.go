// Package ui adapts shell command lifecycle events into human-readable log
// output for interactive azops sessions.
package ui
