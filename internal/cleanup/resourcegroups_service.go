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
	resourceGroupsOperationLabelConstant         = "resource group cleanup"
	resourceGroupPlanMessageTemplateConstant     = "PLAN-CLEANUP: resource group %s would be deleted from %s\n"
	resourceGroupExcludedMessageTemplateConstant = "CLEANUP-SKIP: resource group %s excluded\n"
	resourceGroupDeletedMessageTemplateConstant  = "CLEANUP-DONE: resource group %s deleted from %s\n"
	resourceGroupFailureMessageTemplateConstant  = "CLEANUP-FAIL: resource group %s (%s)\n"
	resourceGroupsNothingMessageTemplateConstant = "CLEANUP-DONE: nothing to delete in %s\n"
	resourceGroupDeclinedMessageTemplateConstant = "CLEANUP-SKIP: resource group %s kept\n"
	resourceGroupPromptTemplateConstant          = "Delete resource group %s from subscription %s? [y/N] "
	cleanupSubscriptionMissingErrorMessage       = "subscription must be provided"
)

// ResourceGroupCleanupClient captures the Azure operations resource group cleanup depends on.
type ResourceGroupCleanupClient interface {
	ListResourceGroups(executionContext context.Context, subscription string) ([]azurecli.ResourceGroup, error)
	DeleteResourceGroup(executionContext context.Context, subscription string, resourceGroupName string) error
}

// ResourceGroupsOptions configures a resource group cleanup run.
type ResourceGroupsOptions struct {
	Subscription string
	Exclusions   []string
	DryRun       bool
	AssumeYes    bool
}

// ResourceGroupsDependencies captures collaborators required to delete resource groups.
type ResourceGroupsDependencies struct {
	AzureClient ResourceGroupCleanupClient
	Prompter    ConfirmationPrompter
	Output      io.Writer
}

// ResourceGroupsService deletes every non-excluded resource group in a subscription.
type ResourceGroupsService struct {
	dependencies ResourceGroupsDependencies
}

// NewResourceGroupsService constructs a ResourceGroupsService from the provided dependencies.
func NewResourceGroupsService(dependencies ResourceGroupsDependencies) (*ResourceGroupsService, error) {
	if dependencies.AzureClient == nil {
		return nil, errors.New(cleanupClientMissingErrorMessageConstant)
	}
	return &ResourceGroupsService{dependencies: dependencies}, nil
}

// Execute deletes the subscription's resource groups, honoring exclusions,
// confirming each group individually unless AssumeYes is set, and continuing
// past individual deletion failures.
func (service *ResourceGroupsService) Execute(executionContext context.Context, options ResourceGroupsOptions) error {
	if len(strings.TrimSpace(options.Subscription)) == 0 {
		return errors.New(cleanupSubscriptionMissingErrorMessage)
	}

	resourceGroups, listError := service.dependencies.AzureClient.ListResourceGroups(executionContext, options.Subscription)
	if listError != nil {
		return fmt.Errorf(cleanupListingFailureTemplateConstant, listError)
	}

	deletionCandidates := make([]azurecli.ResourceGroup, 0, len(resourceGroups))
	for _, candidateGroup := range resourceGroups {
		if isExcluded(candidateGroup.Name, options.Exclusions) {
			service.printfOutput(resourceGroupExcludedMessageTemplateConstant, candidateGroup.Name)
			continue
		}
		deletionCandidates = append(deletionCandidates, candidateGroup)
	}

	if len(deletionCandidates) == 0 {
		service.printfOutput(resourceGroupsNothingMessageTemplateConstant, options.Subscription)
		return nil
	}

	if options.DryRun {
		for _, deletionCandidate := range deletionCandidates {
			service.printfOutput(resourceGroupPlanMessageTemplateConstant, deletionCandidate.Name, options.Subscription)
		}
		return nil
	}

	failedDeletionCount := 0
	for _, deletionCandidate := range deletionCandidates {
		if !options.AssumeYes && service.dependencies.Prompter != nil {
			confirmed, promptError := service.dependencies.Prompter.Confirm(fmt.Sprintf(resourceGroupPromptTemplateConstant, deletionCandidate.Name, options.Subscription))
			if promptError != nil {
				return fmt.Errorf(cleanupConfirmationFailureTemplateConstant, promptError)
			}
			if !confirmed {
				service.printfOutput(resourceGroupDeclinedMessageTemplateConstant, deletionCandidate.Name)
				continue
			}
		}
		deletionError := service.dependencies.AzureClient.DeleteResourceGroup(executionContext, options.Subscription, deletionCandidate.Name)
		if deletionError != nil {
			failedDeletionCount++
			service.printfOutput(resourceGroupFailureMessageTemplateConstant, deletionCandidate.Name, deletionError)
			continue
		}
		service.printfOutput(resourceGroupDeletedMessageTemplateConstant, deletionCandidate.Name, options.Subscription)
	}

	if failedDeletionCount > 0 {
		return PartialFailureError{Operation: resourceGroupsOperationLabelConstant, FailedCount: failedDeletionCount}
	}
	return nil
}

func (service *ResourceGroupsService) printfOutput(format string, arguments ...any) {
	if service.dependencies.Output == nil {
		return
	}
	fmt.Fprintf(service.dependencies.Output, format, arguments...)
}
