package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/azops/internal/azurecli"
)

const (
	libraryGroupsOperationLabelConstant         = "variable group cleanup"
	libraryGroupPlanMessageTemplateConstant     = "PLAN-CLEANUP: variable group %s would be deleted from %s\n"
	libraryGroupExcludedMessageTemplateConstant = "CLEANUP-SKIP: variable group %s excluded\n"
	libraryGroupDeletedMessageTemplateConstant  = "CLEANUP-DONE: variable group %s deleted from %s\n"
	libraryGroupFailureMessageTemplateConstant  = "CLEANUP-FAIL: variable group %s (%s)\n"
	libraryGroupsNothingMessageTemplateConstant = "CLEANUP-DONE: nothing to delete in %s\n"
	libraryGroupsDeclinedMessageConstant        = "CLEANUP-SKIP: user declined\n"
	libraryGroupsPromptTemplateConstant         = "Delete %d variable groups from %s? [y/N] "
)

// LibraryGroupCleanupClient captures the Azure DevOps operations variable group cleanup depends on.
type LibraryGroupCleanupClient interface {
	EnsureDevOpsExtension(executionContext context.Context) error
	ConfigureDefaultOrganization(executionContext context.Context, organization string) error
	ListVariableGroups(executionContext context.Context, project string) ([]azurecli.VariableGroup, error)
	DeleteVariableGroup(executionContext context.Context, project string, groupIdentifier int) error
}

// LibraryGroupsOptions configures a variable group cleanup run.
type LibraryGroupsOptions struct {
	Organization string
	Project      string
	Exclusions   []string
	DryRun       bool
	AssumeYes    bool
}

// LibraryGroupsDependencies captures collaborators required to delete variable groups.
type LibraryGroupsDependencies struct {
	AzureClient LibraryGroupCleanupClient
	Prompter    ConfirmationPrompter
	Output      io.Writer
}

// LibraryGroupsService deletes every non-excluded library variable group in a project.
type LibraryGroupsService struct {
	dependencies LibraryGroupsDependencies
}

// NewLibraryGroupsService constructs a LibraryGroupsService from the provided dependencies.
func NewLibraryGroupsService(dependencies LibraryGroupsDependencies) (*LibraryGroupsService, error) {
	if dependencies.AzureClient == nil {
		return nil, errors.New(cleanupClientMissingErrorMessageConstant)
	}
	return &LibraryGroupsService{dependencies: dependencies}, nil
}

// Execute deletes the project's variable groups, honoring exclusions and continuing
// past individual deletion failures.
func (service *LibraryGroupsService) Execute(executionContext context.Context, options LibraryGroupsOptions) error {
	if len(strings.TrimSpace(options.Organization)) == 0 {
		return errors.New(cleanupOrganizationMissingErrorMessage)
	}
	if len(strings.TrimSpace(options.Project)) == 0 {
		return errors.New(cleanupProjectMissingErrorMessageConstant)
	}

	if extensionError := service.dependencies.AzureClient.EnsureDevOpsExtension(executionContext); extensionError != nil {
		return fmt.Errorf(cleanupSetupFailureTemplateConstant, extensionError)
	}
	if configureError := service.dependencies.AzureClient.ConfigureDefaultOrganization(executionContext, options.Organization); configureError != nil {
		return fmt.Errorf(cleanupSetupFailureTemplateConstant, configureError)
	}

	variableGroups, listError := service.dependencies.AzureClient.ListVariableGroups(executionContext, options.Project)
	if listError != nil {
		return fmt.Errorf(cleanupListingFailureTemplateConstant, listError)
	}

	deletionCandidates := make([]azurecli.VariableGroup, 0, len(variableGroups))
	for _, candidateGroup := range variableGroups {
		if isExcluded(candidateGroup.Name, options.Exclusions) {
			service.printfOutput(libraryGroupExcludedMessageTemplateConstant, candidateGroup.Name)
			continue
		}
		deletionCandidates = append(deletionCandidates, candidateGroup)
	}

	if len(deletionCandidates) == 0 {
		service.printfOutput(libraryGroupsNothingMessageTemplateConstant, options.Project)
		return nil
	}

	if options.DryRun {
		for _, deletionCandidate := range deletionCandidates {
			service.printfOutput(libraryGroupPlanMessageTemplateConstant, deletionCandidate.Name, options.Project)
		}
		return nil
	}

	if !options.AssumeYes && service.dependencies.Prompter != nil {
		confirmed, promptError := service.dependencies.Prompter.Confirm(fmt.Sprintf(libraryGroupsPromptTemplateConstant, len(deletionCandidates), options.Project))
		if promptError != nil {
			return fmt.Errorf(cleanupConfirmationFailureTemplateConstant, promptError)
		}
		if !confirmed {
			service.printfOutput(libraryGroupsDeclinedMessageConstant)
			return nil
		}
	}

	failedDeletionCount := 0
	for _, deletionCandidate := range deletionCandidates {
		deletionError := service.dependencies.AzureClient.DeleteVariableGroup(executionContext, options.Project, deletionCandidate.Identifier)
		if deletionError != nil {
			failedDeletionCount++
			service.printfOutput(libraryGroupFailureMessageTemplateConstant, deletionCandidate.Name, deletionError)
			continue
		}
		service.printfOutput(libraryGroupDeletedMessageTemplateConstant, deletionCandidate.Name, options.Project)
	}

	if failedDeletionCount > 0 {
		return PartialFailureError{Operation: libraryGroupsOperationLabelConstant, FailedCount: failedDeletionCount}
	}
	return nil
}

func (service *LibraryGroupsService) printfOutput(format string, arguments ...any) {
	if service.dependencies.Output == nil {
		return
	}
	fmt.Fprintf(service.dependencies.Output, format, arguments...)
}
