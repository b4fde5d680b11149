// Package cleanup implements bulk deletion commands for Azure DevOps
// repositories, pipelines, and library variable groups, and for Azure
// resource groups. Deletions honor exclusion lists, require confirmation
// unless pre-approved, and continue past individual failures.
package cleanup
