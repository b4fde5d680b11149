// Package utils hosts shared infrastructure for the azops CLI: the Viper
// configuration loader, the zap logger factory, and context helpers used by
// command builders.
package utils
