// Package provision implements the idempotent repository provisioner. It
// queries Azure DevOps for the repository by name, creates it only when
// absent, replaces local git history with a single fresh commit, and pushes
// the initial branch with upstream tracking.
package provision
