// Package cli assembles the azops command-line application: the Cobra root
// command, configuration loading, and logger wiring.
package cli
