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
	pipelinesOperationLabelConstant            = "pipeline cleanup"
	pipelinePlanMessageTemplateConstant        = "PLAN-CLEANUP: pipeline %s would be deleted from %s\n"
	pipelineRunsPlanMessageTemplateConstant    = "PLAN-CLEANUP: in-progress runs of pipeline %s would be canceled\n"
	pipelineExcludedMessageTemplateConstant    = "CLEANUP-SKIP: pipeline %s excluded\n"
	pipelineRunsMessageTemplateConstant        = "CLEANUP-INFO: pipeline %s has %d recorded runs\n"
	pipelineRunsUnavailableMessageTemplate     = "CLEANUP-INFO: pipeline %s run count unavailable (%s)\n"
	pipelineRunCanceledMessageTemplateConstant = "CLEANUP-DONE: run %d of pipeline %s canceled\n"
	pipelineRunCancelFailureMessageTemplate    = "CLEANUP-FAIL: run %d of pipeline %s (%s)\n"
	pipelineDeletedMessageTemplateConstant     = "CLEANUP-DONE: pipeline %s deleted from %s\n"
	pipelineFailureMessageTemplateConstant     = "CLEANUP-FAIL: pipeline %s (%s)\n"
	pipelinesNothingMessageTemplateConstant    = "CLEANUP-DONE: nothing to delete in %s\n"
	pipelinesDeclinedMessageConstant           = "CLEANUP-SKIP: user declined\n"
	pipelinesPromptTemplateConstant            = "Delete %d pipelines from %s? [y/N] "
	pipelinesRunsOnlyPromptTemplateConstant    = "Cancel in-progress runs of %d pipelines from %s? [y/N] "
	pipelineRunStateInProgressValueConstant    = "inProgress"
	pipelineRunStateNotStartedValueConstant    = "notStarted"
	pipelineRunStateQueuedValueConstant        = "queued"
)

// PipelineCleanupClient captures the Azure DevOps operations pipeline cleanup depends on.
type PipelineCleanupClient interface {
	EnsureDevOpsExtension(executionContext context.Context) error
	ConfigureDefaultOrganization(executionContext context.Context, organization string) error
	ListPipelines(executionContext context.Context, project string) ([]azurecli.Pipeline, error)
	ListPipelineRuns(executionContext context.Context, project string, pipelineIdentifier int) ([]azurecli.PipelineRun, error)
	CancelPipelineRun(executionContext context.Context, project string, runIdentifier int) error
	DeletePipeline(executionContext context.Context, project string, pipelineIdentifier int) error
}

// PipelinesOptions configures a pipeline cleanup run. RunsOnly cancels
// in-progress runs while keeping the pipeline definitions.
type PipelinesOptions struct {
	Organization string
	Project      string
	Exclusions   []string
	DryRun       bool
	AssumeYes    bool
	RunsOnly     bool
}

// PipelinesDependencies captures collaborators required to delete pipelines.
type PipelinesDependencies struct {
	AzureClient PipelineCleanupClient
	Prompter    ConfirmationPrompter
	Output      io.Writer
}

// PipelinesService deletes every non-excluded pipeline in a project, canceling
// in-progress runs and reporting the recorded run count before each deletion.
type PipelinesService struct {
	dependencies PipelinesDependencies
}

// NewPipelinesService constructs a PipelinesService from the provided dependencies.
func NewPipelinesService(dependencies PipelinesDependencies) (*PipelinesService, error) {
	if dependencies.AzureClient == nil {
		return nil, errors.New(cleanupClientMissingErrorMessageConstant)
	}
	return &PipelinesService{dependencies: dependencies}, nil
}

// Execute deletes the project's pipelines, honoring exclusions and continuing past
// individual deletion failures.
func (service *PipelinesService) Execute(executionContext context.Context, options PipelinesOptions) error {
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

	pipelines, listError := service.dependencies.AzureClient.ListPipelines(executionContext, options.Project)
	if listError != nil {
		return fmt.Errorf(cleanupListingFailureTemplateConstant, listError)
	}

	deletionCandidates := make([]azurecli.Pipeline, 0, len(pipelines))
	for _, candidatePipeline := range pipelines {
		if isExcluded(candidatePipeline.Name, options.Exclusions) {
			service.printfOutput(pipelineExcludedMessageTemplateConstant, candidatePipeline.Name)
			continue
		}
		deletionCandidates = append(deletionCandidates, candidatePipeline)
	}

	if len(deletionCandidates) == 0 {
		service.printfOutput(pipelinesNothingMessageTemplateConstant, options.Project)
		return nil
	}

	if options.DryRun {
		for _, deletionCandidate := range deletionCandidates {
			if options.RunsOnly {
				service.printfOutput(pipelineRunsPlanMessageTemplateConstant, deletionCandidate.Name)
				continue
			}
			service.printfOutput(pipelinePlanMessageTemplateConstant, deletionCandidate.Name, options.Project)
		}
		return nil
	}

	if !options.AssumeYes && service.dependencies.Prompter != nil {
		promptTemplate := pipelinesPromptTemplateConstant
		if options.RunsOnly {
			promptTemplate = pipelinesRunsOnlyPromptTemplateConstant
		}
		confirmed, promptError := service.dependencies.Prompter.Confirm(fmt.Sprintf(promptTemplate, len(deletionCandidates), options.Project))
		if promptError != nil {
			return fmt.Errorf(cleanupConfirmationFailureTemplateConstant, promptError)
		}
		if !confirmed {
			service.printfOutput(pipelinesDeclinedMessageConstant)
			return nil
		}
	}

	failedDeletionCount := 0
	for _, deletionCandidate := range deletionCandidates {
		pipelineRuns, runsError := service.dependencies.AzureClient.ListPipelineRuns(executionContext, options.Project, deletionCandidate.Identifier)
		if runsError != nil {
			service.printfOutput(pipelineRunsUnavailableMessageTemplate, deletionCandidate.Name, runsError)
		} else {
			service.printfOutput(pipelineRunsMessageTemplateConstant, deletionCandidate.Name, len(pipelineRuns))
			failedDeletionCount += service.cancelActiveRuns(executionContext, options.Project, deletionCandidate.Name, pipelineRuns)
		}

		if options.RunsOnly {
			continue
		}

		deletionError := service.dependencies.AzureClient.DeletePipeline(executionContext, options.Project, deletionCandidate.Identifier)
		if deletionError != nil {
			failedDeletionCount++
			service.printfOutput(pipelineFailureMessageTemplateConstant, deletionCandidate.Name, deletionError)
			continue
		}
		service.printfOutput(pipelineDeletedMessageTemplateConstant, deletionCandidate.Name, options.Project)
	}

	if failedDeletionCount > 0 {
		return PartialFailureError{Operation: pipelinesOperationLabelConstant, FailedCount: failedDeletionCount}
	}
	return nil
}

func (service *PipelinesService) cancelActiveRuns(executionContext context.Context, project string, pipelineName string, pipelineRuns []azurecli.PipelineRun) int {
	failureCount := 0
	for _, pipelineRun := range pipelineRuns {
		if !isActiveRunState(pipelineRun.State) {
			continue
		}
		cancellationError := service.dependencies.AzureClient.CancelPipelineRun(executionContext, project, pipelineRun.Identifier)
		if cancellationError != nil {
			failureCount++
			service.printfOutput(pipelineRunCancelFailureMessageTemplate, pipelineRun.Identifier, pipelineName, cancellationError)
			continue
		}
		service.printfOutput(pipelineRunCanceledMessageTemplateConstant, pipelineRun.Identifier, pipelineName)
	}
	return failureCount
}

func isActiveRunState(runState string) bool {
	switch runState {
	case pipelineRunStateInProgressValueConstant, pipelineRunStateNotStartedValueConstant, pipelineRunStateQueuedValueConstant:
		return true
	}
	return false
}

func (service *PipelinesService) printfOutput(format string, arguments ...any) {
	if service.dependencies.Output == nil {
		return
	}
	fmt.Fprintf(service.dependencies.Output, format, arguments...)
}
