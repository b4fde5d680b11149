package cleanup_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/azops/internal/azurecli"
	"github.com/temirov/azops/internal/cleanup"
)

const (
	testOrganizationNameConstant = "contoso"
	testProjectNameConstant      = "Widgets"
	testSubscriptionNameConstant = "Contoso Production"
)

type scriptedPrompter struct {
	response      bool
	responses     []bool
	promptFailure error
	prompts       []string
}

func (prompter *scriptedPrompter) Confirm(prompt string) (bool, error) {
	prompter.prompts = append(prompter.prompts, prompt)
	if prompter.promptFailure != nil {
		return false, prompter.promptFailure
	}
	if len(prompter.responses) > 0 {
		nextResponse := prompter.responses[0]
		prompter.responses = prompter.responses[1:]
		return nextResponse, nil
	}
	return prompter.response, nil
}

type stubCleanupClient struct {
	repositories          []azurecli.Repository
	pipelines             []azurecli.Pipeline
	pipelineRuns          map[int][]azurecli.PipelineRun
	variableGroups        []azurecli.VariableGroup
	resourceGroups        []azurecli.ResourceGroup
	failingDeletions      map[string]error
	failingRunListings    map[int]error
	failingCancellations  map[int]error
	deletedRepositories   []string
	deletedPipelines      []int
	canceledPipelineRuns  []int
	deletedVariableGroups []int
	deletedResourceGroups []string
}

func (client *stubCleanupClient) EnsureDevOpsExtension(_ context.Context) error { return nil }

func (client *stubCleanupClient) ConfigureDefaultOrganization(_ context.Context, _ string) error {
	return nil
}

func (client *stubCleanupClient) ListRepositories(_ context.Context, _ string) ([]azurecli.Repository, error) {
	return client.repositories, nil
}

func (client *stubCleanupClient) DeleteRepository(_ context.Context, _ string, repositoryIdentifier string) error {
	if deletionFailure, failing := client.failingDeletions[repositoryIdentifier]; failing {
		return deletionFailure
	}
	client.deletedRepositories = append(client.deletedRepositories, repositoryIdentifier)
	return nil
}

func (client *stubCleanupClient) ListPipelines(_ context.Context, _ string) ([]azurecli.Pipeline, error) {
	return client.pipelines, nil
}

func (client *stubCleanupClient) ListPipelineRuns(_ context.Context, _ string, pipelineIdentifier int) ([]azurecli.PipelineRun, error) {
	if listingFailure, failing := client.failingRunListings[pipelineIdentifier]; failing {
		return nil, listingFailure
	}
	return client.pipelineRuns[pipelineIdentifier], nil
}

func (client *stubCleanupClient) CancelPipelineRun(_ context.Context, _ string, runIdentifier int) error {
	if cancellationFailure, failing := client.failingCancellations[runIdentifier]; failing {
		return cancellationFailure
	}
	client.canceledPipelineRuns = append(client.canceledPipelineRuns, runIdentifier)
	return nil
}

func (client *stubCleanupClient) DeletePipeline(_ context.Context, _ string, pipelineIdentifier int) error {
	client.deletedPipelines = append(client.deletedPipelines, pipelineIdentifier)
	return nil
}

func (client *stubCleanupClient) ListVariableGroups(_ context.Context, _ string) ([]azurecli.VariableGroup, error) {
	return client.variableGroups, nil
}

func (client *stubCleanupClient) DeleteVariableGroup(_ context.Context, _ string, groupIdentifier int) error {
	client.deletedVariableGroups = append(client.deletedVariableGroups, groupIdentifier)
	return nil
}

func (client *stubCleanupClient) ListResourceGroups(_ context.Context, _ string) ([]azurecli.ResourceGroup, error) {
	return client.resourceGroups, nil
}

func (client *stubCleanupClient) DeleteResourceGroup(_ context.Context, _ string, resourceGroupName string) error {
	if deletionFailure, failing := client.failingDeletions[resourceGroupName]; failing {
		return deletionFailure
	}
	client.deletedResourceGroups = append(client.deletedResourceGroups, resourceGroupName)
	return nil
}

func TestRepositoriesServiceDeletesNonExcludedRepositories(testInstance *testing.T) {
	client := &stubCleanupClient{repositories: []azurecli.Repository{
		{Identifier: "a1", Name: "widget-api"},
		{Identifier: "b2", Name: "widget-web"},
		{Identifier: "c3", Name: "keep-me"},
	}}
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewRepositoriesService(cleanup.RepositoriesDependencies{
		AzureClient: client,
		Prompter:    &scriptedPrompter{response: true},
		Output:      outputBuffer,
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Execute(context.Background(), cleanup.RepositoriesOptions{
		Organization: testOrganizationNameConstant,
		Project:      testProjectNameConstant,
		Exclusions:   []string{"Keep-Me"},
	}))

	require.Equal(testInstance, []string{"a1", "b2"}, client.deletedRepositories)
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-SKIP: repository keep-me excluded")
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-DONE: repository widget-api deleted from Widgets")
}

func TestRepositoriesServiceDryRunDeletesNothing(testInstance *testing.T) {
	client := &stubCleanupClient{repositories: []azurecli.Repository{{Identifier: "a1", Name: "widget-api"}}}
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewRepositoriesService(cleanup.RepositoriesDependencies{
		AzureClient: client,
		Output:      outputBuffer,
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Execute(context.Background(), cleanup.RepositoriesOptions{
		Organization: testOrganizationNameConstant,
		Project:      testProjectNameConstant,
		DryRun:       true,
	}))

	require.Empty(testInstance, client.deletedRepositories)
	require.Contains(testInstance, outputBuffer.String(), "PLAN-CLEANUP: repository widget-api would be deleted from Widgets")
}

func TestRepositoriesServiceHonorsDeclinedConfirmation(testInstance *testing.T) {
	client := &stubCleanupClient{repositories: []azurecli.Repository{{Identifier: "a1", Name: "widget-api"}}}
	prompter := &scriptedPrompter{response: false}
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewRepositoriesService(cleanup.RepositoriesDependencies{
		AzureClient: client,
		Prompter:    prompter,
		Output:      outputBuffer,
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Execute(context.Background(), cleanup.RepositoriesOptions{
		Organization: testOrganizationNameConstant,
		Project:      testProjectNameConstant,
	}))

	require.Empty(testInstance, client.deletedRepositories)
	require.Len(testInstance, prompter.prompts, 1)
	require.True(testInstance, strings.HasPrefix(prompter.prompts[0], "Delete 1 repositories from Widgets?"))
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-SKIP: user declined")
}

func TestRepositoriesServiceContinuesPastFailures(testInstance *testing.T) {
	client := &stubCleanupClient{
		repositories: []azurecli.Repository{
			{Identifier: "a1", Name: "widget-api"},
			{Identifier: "b2", Name: "widget-web"},
		},
		failingDeletions: map[string]error{"a1": errors.New("TF401019: locked")},
	}
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewRepositoriesService(cleanup.RepositoriesDependencies{
		AzureClient: client,
		Output:      outputBuffer,
	})
	require.NoError(testInstance, creationError)

	executionError := service.Execute(context.Background(), cleanup.RepositoriesOptions{
		Organization: testOrganizationNameConstant,
		Project:      testProjectNameConstant,
		AssumeYes:    true,
	})

	require.Error(testInstance, executionError)
	require.IsType(testInstance, cleanup.PartialFailureError{}, executionError)
	require.Equal(testInstance, []string{"b2"}, client.deletedRepositories)
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-FAIL: repository widget-api")
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-DONE: repository widget-web deleted from Widgets")
}

func TestPipelinesServiceReportsRunCounts(testInstance *testing.T) {
	client := &stubCleanupClient{
		pipelines: []azurecli.Pipeline{
			{Identifier: 12, Name: "widget-ci"},
			{Identifier: 31, Name: "widget-release"},
		},
		pipelineRuns: map[int][]azurecli.PipelineRun{
			12: {{Identifier: 100}, {Identifier: 101}},
		},
	}
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewPipelinesService(cleanup.PipelinesDependencies{
		AzureClient: client,
		Output:      outputBuffer,
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Execute(context.Background(), cleanup.PipelinesOptions{
		Organization: testOrganizationNameConstant,
		Project:      testProjectNameConstant,
		AssumeYes:    true,
	}))

	require.Equal(testInstance, []int{12, 31}, client.deletedPipelines)
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-INFO: pipeline widget-ci has 2 recorded runs")
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-INFO: pipeline widget-release has 0 recorded runs")
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-DONE: pipeline widget-release deleted from Widgets")
}

func TestPipelinesServiceReportsRunListingFailures(testInstance *testing.T) {
	client := &stubCleanupClient{
		pipelines:          []azurecli.Pipeline{{Identifier: 12, Name: "widget-ci"}},
		failingRunListings: map[int]error{12: errors.New("VS800075: project moved")},
	}
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewPipelinesService(cleanup.PipelinesDependencies{
		AzureClient: client,
		Output:      outputBuffer,
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Execute(context.Background(), cleanup.PipelinesOptions{
		Organization: testOrganizationNameConstant,
		Project:      testProjectNameConstant,
		AssumeYes:    true,
	}))

	require.Equal(testInstance, []int{12}, client.deletedPipelines)
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-INFO: pipeline widget-ci run count unavailable (VS800075: project moved)")
}

func TestPipelinesServiceCancelsActiveRunsInRunsOnlyMode(testInstance *testing.T) {
	client := &stubCleanupClient{
		pipelines: []azurecli.Pipeline{{Identifier: 12, Name: "widget-ci"}},
		pipelineRuns: map[int][]azurecli.PipelineRun{
			12: {
				{Identifier: 100, State: "completed"},
				{Identifier: 101, State: "inProgress"},
				{Identifier: 102, State: "queued"},
			},
		},
	}
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewPipelinesService(cleanup.PipelinesDependencies{
		AzureClient: client,
		Output:      outputBuffer,
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Execute(context.Background(), cleanup.PipelinesOptions{
		Organization: testOrganizationNameConstant,
		Project:      testProjectNameConstant,
		AssumeYes:    true,
		RunsOnly:     true,
	}))

	require.Empty(testInstance, client.deletedPipelines)
	require.Equal(testInstance, []int{101, 102}, client.canceledPipelineRuns)
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-DONE: run 101 of pipeline widget-ci canceled")
	require.NotContains(testInstance, outputBuffer.String(), "run 100")
}

func TestLibraryGroupsServiceDeletesGroups(testInstance *testing.T) {
	client := &stubCleanupClient{variableGroups: []azurecli.VariableGroup{
		{Identifier: 5, Name: "widget-secrets"},
		{Identifier: 7, Name: "shared-settings"},
	}}
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewLibraryGroupsService(cleanup.LibraryGroupsDependencies{
		AzureClient: client,
		Output:      outputBuffer,
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Execute(context.Background(), cleanup.LibraryGroupsOptions{
		Organization: testOrganizationNameConstant,
		Project:      testProjectNameConstant,
		Exclusions:   []string{"shared-settings"},
		AssumeYes:    true,
	}))

	require.Equal(testInstance, []int{5}, client.deletedVariableGroups)
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-SKIP: variable group shared-settings excluded")
}

func TestResourceGroupsServiceRequiresSubscription(testInstance *testing.T) {
	service, creationError := cleanup.NewResourceGroupsService(cleanup.ResourceGroupsDependencies{AzureClient: &stubCleanupClient{}})
	require.NoError(testInstance, creationError)

	executionError := service.Execute(context.Background(), cleanup.ResourceGroupsOptions{})
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "subscription")
}

func TestResourceGroupsServiceDeletesGroups(testInstance *testing.T) {
	client := &stubCleanupClient{resourceGroups: []azurecli.ResourceGroup{
		{Name: "widgets-dev-rg", Location: "eastus"},
		{Name: "widgets-prod-rg", Location: "eastus"},
	}}
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewResourceGroupsService(cleanup.ResourceGroupsDependencies{
		AzureClient: client,
		Output:      outputBuffer,
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Execute(context.Background(), cleanup.ResourceGroupsOptions{
		Subscription: testSubscriptionNameConstant,
		Exclusions:   []string{"widgets-prod-rg"},
		AssumeYes:    true,
	}))

	require.Equal(testInstance, []string{"widgets-dev-rg"}, client.deletedResourceGroups)
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-SKIP: resource group widgets-prod-rg excluded")
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-DONE: resource group widgets-dev-rg deleted from Contoso Production")
}

func TestResourceGroupsServiceConfirmsEachGroup(testInstance *testing.T) {
	client := &stubCleanupClient{resourceGroups: []azurecli.ResourceGroup{
		{Name: "widgets-dev-rg", Location: "eastus"},
		{Name: "widgets-prod-rg", Location: "eastus"},
	}}
	prompter := &scriptedPrompter{responses: []bool{true, false}}
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewResourceGroupsService(cleanup.ResourceGroupsDependencies{
		AzureClient: client,
		Prompter:    prompter,
		Output:      outputBuffer,
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Execute(context.Background(), cleanup.ResourceGroupsOptions{
		Subscription: testSubscriptionNameConstant,
	}))

	require.Len(testInstance, prompter.prompts, 2)
	require.Contains(testInstance, prompter.prompts[0], "widgets-dev-rg")
	require.Contains(testInstance, prompter.prompts[1], "widgets-prod-rg")
	require.Equal(testInstance, []string{"widgets-dev-rg"}, client.deletedResourceGroups)
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-SKIP: resource group widgets-prod-rg kept")
}

func TestServicesReportNothingToDelete(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	service, creationError := cleanup.NewRepositoriesService(cleanup.RepositoriesDependencies{
		AzureClient: &stubCleanupClient{},
		Output:      outputBuffer,
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Execute(context.Background(), cleanup.RepositoriesOptions{
		Organization: testOrganizationNameConstant,
		Project:      testProjectNameConstant,
	}))
	require.Contains(testInstance, outputBuffer.String(), "CLEANUP-DONE: nothing to delete in Widgets")
}
