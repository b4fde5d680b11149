// Package azureauth resolves Azure DevOps personal access tokens from
// declarative sources such as environment variables and token files.
package azureauth
