package provision

import (
	"strings"

	pathutils "github.com/temirov/azops/internal/utils/path"
)

var provisionHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	defaultBranchNameValueConstant    = "main"
	defaultCommitMessageValueConstant = "Initial commit"
	defaultDirectoryValueConstant     = "."
	defaultPATSourceValueConstant     = "env:AZURE_DEVOPS_EXT_PAT"
)

// Configuration aggregates settings for the provision command.
type Configuration struct {
	Organization  string `mapstructure:"organization"`
	Project       string `mapstructure:"project"`
	Repository    string `mapstructure:"repository"`
	Directory     string `mapstructure:"directory"`
	Branch        string `mapstructure:"branch"`
	CommitMessage string `mapstructure:"message"`
	PATSource     string `mapstructure:"pat_source"`
	DryRun        bool   `mapstructure:"dry_run"`
}

// DefaultConfiguration supplies baseline values for provision configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		Directory:     defaultDirectoryValueConstant,
		Branch:        defaultBranchNameValueConstant,
		CommitMessage: defaultCommitMessageValueConstant,
		PATSource:     defaultPATSourceValueConstant,
	}
}

// DefaultConfigurationValues exposes baseline settings keyed beneath the provided prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	return map[string]any{
		configurationPrefix + ".directory":  defaultDirectoryValueConstant,
		configurationPrefix + ".branch":     defaultBranchNameValueConstant,
		configurationPrefix + ".message":    defaultCommitMessageValueConstant,
		configurationPrefix + ".pat_source": defaultPATSourceValueConstant,
	}
}

// Sanitize trims configured values and expands the working directory path.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Organization = strings.TrimSpace(configuration.Organization)
	sanitized.Project = strings.TrimSpace(configuration.Project)
	sanitized.Repository = strings.TrimSpace(configuration.Repository)
	sanitized.Branch = strings.TrimSpace(configuration.Branch)
	sanitized.CommitMessage = strings.TrimSpace(configuration.CommitMessage)
	sanitized.PATSource = strings.TrimSpace(configuration.PATSource)

	trimmedDirectory := strings.TrimSpace(configuration.Directory)
	if len(trimmedDirectory) > 0 {
		sanitized.Directory = provisionHomeDirectoryExpander.Expand(trimmedDirectory)
	} else {
		sanitized.Directory = ""
	}

	return sanitized
}
