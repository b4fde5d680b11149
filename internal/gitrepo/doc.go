// Package gitrepo manages local git repositories through the git CLI. It
// covers history removal, re-initialization, remote registration, staging,
// committing, and upstream pushes, plus Azure Repos remote URL assembly.
package gitrepo
