package cleanup

import "strings"

const (
	defaultCleanupPATSourceValueConstant = "env:AZURE_DEVOPS_EXT_PAT"
)

// Configuration aggregates settings for cleanup commands.
type Configuration struct {
	Organization string   `mapstructure:"organization"`
	Project      string   `mapstructure:"project"`
	Subscription string   `mapstructure:"subscription"`
	PATSource    string   `mapstructure:"pat_source"`
	Exclusions   []string `mapstructure:"exclude"`
	AssumeYes    bool     `mapstructure:"assume_yes"`
	DryRun       bool     `mapstructure:"dry_run"`
}

// DefaultConfiguration supplies baseline values for cleanup configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		PATSource: defaultCleanupPATSourceValueConstant,
	}
}

// DefaultConfigurationValues exposes baseline settings keyed beneath the provided prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	return map[string]any{
		configurationPrefix + ".pat_source": defaultCleanupPATSourceValueConstant,
	}
}

// Sanitize trims configured values and removes empty exclusion entries.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Organization = strings.TrimSpace(configuration.Organization)
	sanitized.Project = strings.TrimSpace(configuration.Project)
	sanitized.Subscription = strings.TrimSpace(configuration.Subscription)
	sanitized.PATSource = strings.TrimSpace(configuration.PATSource)
	sanitized.Exclusions = sanitizeExclusions(configuration.Exclusions)
	return sanitized
}

func sanitizeExclusions(candidateExclusions []string) []string {
	sanitizedExclusions := make([]string, 0, len(candidateExclusions))
	for _, exclusionCandidate := range candidateExclusions {
		trimmedExclusion := strings.TrimSpace(exclusionCandidate)
		if len(trimmedExclusion) == 0 {
			continue
		}
		sanitizedExclusions = append(sanitizedExclusions, trimmedExclusion)
	}
	if len(sanitizedExclusions) == 0 {
		return nil
	}
	return sanitizedExclusions
}

func isExcluded(candidateName string, exclusions []string) bool {
	for _, exclusion := range exclusions {
		if strings.EqualFold(strings.TrimSpace(candidateName), exclusion) {
			return true
		}
	}
	return false
}
