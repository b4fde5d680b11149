package gitrepo

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	azureRemoteURLTemplateConstant    = "https://dev.azure.com/%s/%s/_git/%s"
	organizationFieldNameConstant     = "organization"
	projectFieldNameConstant          = "project"
	repositoryNameFieldNameConstant   = "repository name"
	remoteURLBuildErrorTemplateString = "%s: %s"
)

// RemoteURLBuildError indicates a remote URL could not be assembled from its parts.
type RemoteURLBuildError struct {
	FieldName string
	Message   string
}

// Error describes the build failure.
func (buildError RemoteURLBuildError) Error() string {
	return fmt.Sprintf(remoteURLBuildErrorTemplateString, buildError.FieldName, buildError.Message)
}

// BuildAzureRemoteURL assembles the HTTPS clone URL of an Azure Repos repository.
// Path segments are escaped so project and repository names containing spaces
// produce valid URLs.
func BuildAzureRemoteURL(organization string, project string, repositoryName string) (string, error) {
	trimmedOrganization := strings.TrimSpace(organization)
	if len(trimmedOrganization) == 0 {
		return "", RemoteURLBuildError{FieldName: organizationFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedProject := strings.TrimSpace(project)
	if len(trimmedProject) == 0 {
		return "", RemoteURLBuildError{FieldName: projectFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedRepositoryName := strings.TrimSpace(repositoryName)
	if len(trimmedRepositoryName) == 0 {
		return "", RemoteURLBuildError{FieldName: repositoryNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	return fmt.Sprintf(
		azureRemoteURLTemplateConstant,
		url.PathEscape(trimmedOrganization),
		url.PathEscape(trimmedProject),
		url.PathEscape(trimmedRepositoryName),
	), nil
}
