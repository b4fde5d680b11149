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
	repositoriesOperationLabelConstant          = "repository cleanup"
	repositoryPlanMessageTemplateConstant       = "PLAN-CLEANUP: repository %s would be deleted from %s\n"
	repositoryExcludedMessageTemplateConstant   = "CLEANUP-SKIP: repository %s excluded\n"
	repositoryDeletedMessageTemplateConstant    = "CLEANUP-DONE: repository %s deleted from %s\n"
	repositoryFailureMessageTemplateConstant    = "CLEANUP-FAIL: repository %s (%s)\n"
	repositoriesNothingMessageTemplateConstant  = "CLEANUP-DONE: nothing to delete in %s\n"
	repositoriesDeclinedMessageConstant         = "CLEANUP-SKIP: user declined\n"
	repositoriesPromptTemplateConstant          = "Delete %d repositories from %s? [y/N] "
	cleanupClientMissingErrorMessageConstant    = "azure client not configured"
	cleanupOrganizationMissingErrorMessage      = "organization must be provided"
	cleanupProjectMissingErrorMessageConstant   = "project must be provided"
	cleanupSetupFailureTemplateConstant         = "cleanup setup: %w"
	cleanupListingFailureTemplateConstant       = "cleanup listing: %w"
	cleanupConfirmationFailureTemplateConstant  = "cleanup confirmation: %w"
)

// RepositoryCleanupClient captures the Azure DevOps operations repository cleanup depends on.
type RepositoryCleanupClient interface {
	EnsureDevOpsExtension(executionContext context.Context) error
	ConfigureDefaultOrganization(executionContext context.Context, organization string) error
	ListRepositories(executionContext context.Context, project string) ([]azurecli.Repository, error)
	DeleteRepository(executionContext context.Context, project string, repositoryIdentifier string) error
}

// RepositoriesOptions configures a repository cleanup run.
type RepositoriesOptions struct {
	Organization string
	Project      string
	Exclusions   []string
	DryRun       bool
	AssumeYes    bool
}

// RepositoriesDependencies captures collaborators required to delete repositories.
type RepositoriesDependencies struct {
	AzureClient RepositoryCleanupClient
	Prompter    ConfirmationPrompter
	Output      io.Writer
}

// RepositoriesService deletes every non-excluded repository in a project.
type RepositoriesService struct {
	dependencies RepositoriesDependencies
}

// NewRepositoriesService constructs a RepositoriesService from the provided dependencies.
func NewRepositoriesService(dependencies RepositoriesDependencies) (*RepositoriesService, error) {
	if dependencies.AzureClient == nil {
		return nil, errors.New(cleanupClientMissingErrorMessageConstant)
	}
	return &RepositoriesService{dependencies: dependencies}, nil
}

// Execute deletes the project's repositories, honoring exclusions and continuing past
// individual deletion failures. A nonzero failure count surfaces as an error.
func (service *RepositoriesService) Execute(executionContext context.Context, options RepositoriesOptions) error {
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

	repositories, listError := service.dependencies.AzureClient.ListRepositories(executionContext, options.Project)
	if listError != nil {
		return fmt.Errorf(cleanupListingFailureTemplateConstant, listError)
	}

	deletionCandidates := make([]azurecli.Repository, 0, len(repositories))
	for _, candidateRepository := range repositories {
		if isExcluded(candidateRepository.Name, options.Exclusions) {
			service.printfOutput(repositoryExcludedMessageTemplateConstant, candidateRepository.Name)
			continue
		}
		deletionCandidates = append(deletionCandidates, candidateRepository)
	}

	if len(deletionCandidates) == 0 {
		service.printfOutput(repositoriesNothingMessageTemplateConstant, options.Project)
		return nil
	}

	if options.DryRun {
		for _, deletionCandidate := range deletionCandidates {
			service.printfOutput(repositoryPlanMessageTemplateConstant, deletionCandidate.Name, options.Project)
		}
		return nil
	}

	if !options.AssumeYes && service.dependencies.Prompter != nil {
		confirmed, promptError := service.dependencies.Prompter.Confirm(fmt.Sprintf(repositoriesPromptTemplateConstant, len(deletionCandidates), options.Project))
		if promptError != nil {
			return fmt.Errorf(cleanupConfirmationFailureTemplateConstant, promptError)
		}
		if !confirmed {
			service.printfOutput(repositoriesDeclinedMessageConstant)
			return nil
		}
	}

	failedDeletionCount := 0
	for _, deletionCandidate := range deletionCandidates {
		deletionError := service.dependencies.AzureClient.DeleteRepository(executionContext, options.Project, deletionCandidate.Identifier)
		if deletionError != nil {
			failedDeletionCount++
			service.printfOutput(repositoryFailureMessageTemplateConstant, deletionCandidate.Name, deletionError)
			continue
		}
		service.printfOutput(repositoryDeletedMessageTemplateConstant, deletionCandidate.Name, options.Project)
	}

	if failedDeletionCount > 0 {
		return PartialFailureError{Operation: repositoriesOperationLabelConstant, FailedCount: failedDeletionCount}
	}
	return nil
}

func (service *RepositoriesService) printfOutput(format string, arguments ...any) {
	if service.dependencies.Output == nil {
		return
	}
	fmt.Fprintf(service.dependencies.Output, format, arguments...)
}
