package azurecli_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/azops/internal/azurecli"
	"github.com/temirov/azops/internal/execshell"
)

const (
	testProjectNameConstant              = "Widgets"
	testSubscriptionNameConstant         = "Contoso Production"
	testRepositoryNameConstant           = "widget-api"
	testRepositoryIdentifierConstant     = "1f2e3d4c"
	testResourceGroupNameConstant        = "widgets-dev-rg"
	testRepositoryListPayloadConstant    = `[{"id":"1f2e3d4c","name":"widget-api","remoteUrl":"https://dev.azure.com/contoso/Widgets/_git/widget-api","defaultBranch":"refs/heads/main"}]`
	testRepositoryCreatePayloadConstant  = `{"id":"9a8b7c6d","name":"widget-web","remoteUrl":"https://dev.azure.com/contoso/Widgets/_git/widget-web"}`
	testPipelineListPayloadConstant      = `[{"id":12,"name":"widget-ci"},{"id":31,"name":"widget-release"}]`
	testPipelineRunsPayloadConstant      = `[{"id":100,"status":"completed","state":"completed"},{"id":101,"status":"inProgress","state":"inProgress"}]`
	testVariableGroupListPayloadConstant = `[{"id":5,"name":"widget-secrets"}]`
	testResourceGroupListPayloadConstant = `[{"name":"widgets-dev-rg","location":"eastus"}]`
	testMalformedPayloadConstant         = `{"unexpected":`
	testExecutionFailureMessageConstant  = "az executable not found"
)

type recordedInvocation struct {
	details execshell.CommandDetails
}

type stubAzureExecutor struct {
	invocations []recordedInvocation
	results     []execshell.ExecutionResult
	failures    []error
}

func (executor *stubAzureExecutor) ExecuteAzureCLI(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	invocationIndex := len(executor.invocations)
	executor.invocations = append(executor.invocations, recordedInvocation{details: details})
	if invocationIndex < len(executor.failures) && executor.failures[invocationIndex] != nil {
		return execshell.ExecutionResult{}, executor.failures[invocationIndex]
	}
	if invocationIndex < len(executor.results) {
		return executor.results[invocationIndex], nil
	}
	return execshell.ExecutionResult{}, nil
}

func TestNewClientRequiresExecutor(testInstance *testing.T) {
	client, creationError := azurecli.NewClient(nil)
	require.ErrorIs(testInstance, creationError, azurecli.ErrExecutorNotConfigured)
	require.Nil(testInstance, client)
}

func TestEnsureDevOpsExtension(testInstance *testing.T) {
	testCases := []struct {
		name                    string
		listOutput              string
		expectedInvocationCount int
	}{
		{
			name:                    "extension_already_installed",
			listOutput:              `[{"name":"azure-devops"}]`,
			expectedInvocationCount: 1,
		},
		{
			name:                    "extension_missing",
			listOutput:              "[]",
			expectedInvocationCount: 2,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubAzureExecutor{results: []execshell.ExecutionResult{{StandardOutput: testCase.listOutput}, {}}}
			client, creationError := azurecli.NewClient(executor)
			require.NoError(testInstance, creationError)

			require.NoError(testInstance, client.EnsureDevOpsExtension(context.Background()))
			require.Len(testInstance, executor.invocations, testCase.expectedInvocationCount)
			if testCase.expectedInvocationCount == 2 {
				installArguments := executor.invocations[1].details.Arguments
				require.Contains(testInstance, installArguments, "add")
				require.Contains(testInstance, installArguments, "azure-devops")
			}
		})
	}
}

func TestConfigureDefaultOrganization(testInstance *testing.T) {
	executor := &stubAzureExecutor{}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, client.ConfigureDefaultOrganization(context.Background(), "contoso"))
	require.Len(testInstance, executor.invocations, 1)
	require.Contains(testInstance, executor.invocations[0].details.Arguments, "organization=https://dev.azure.com/contoso/")
}

func TestConfigureDefaultOrganizationRejectsEmptyOrganization(testInstance *testing.T) {
	client, creationError := azurecli.NewClient(&stubAzureExecutor{})
	require.NoError(testInstance, creationError)

	configurationError := client.ConfigureDefaultOrganization(context.Background(), "   ")
	require.IsType(testInstance, azurecli.InvalidInputError{}, configurationError)
}

func TestListRepositories(testInstance *testing.T) {
	executor := &stubAzureExecutor{results: []execshell.ExecutionResult{{StandardOutput: testRepositoryListPayloadConstant}}}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	repositories, listError := client.ListRepositories(context.Background(), testProjectNameConstant)
	require.NoError(testInstance, listError)
	require.Len(testInstance, repositories, 1)
	require.Equal(testInstance, testRepositoryNameConstant, repositories[0].Name)
	require.Equal(testInstance, testRepositoryIdentifierConstant, repositories[0].Identifier)

	listArguments := executor.invocations[0].details.Arguments
	require.Equal(testInstance, "repos", listArguments[0])
	require.Contains(testInstance, listArguments, testProjectNameConstant)
}

func TestListRepositoriesDecodingFailure(testInstance *testing.T) {
	executor := &stubAzureExecutor{results: []execshell.ExecutionResult{{StandardOutput: testMalformedPayloadConstant}}}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	repositories, listError := client.ListRepositories(context.Background(), testProjectNameConstant)
	require.Nil(testInstance, repositories)
	require.IsType(testInstance, azurecli.ResponseDecodingError{}, listError)
}

func TestFindRepositoryByName(testInstance *testing.T) {
	testCases := []struct {
		name           string
		repositoryName string
		expectFound    bool
	}{
		{
			name:           "exact_match",
			repositoryName: "widget-api",
			expectFound:    true,
		},
		{
			name:           "case_insensitive_match",
			repositoryName: "Widget-API",
			expectFound:    true,
		},
		{
			name:           "absent_repository",
			repositoryName: "widget-web",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubAzureExecutor{results: []execshell.ExecutionResult{{StandardOutput: testRepositoryListPayloadConstant}}}
			client, creationError := azurecli.NewClient(executor)
			require.NoError(testInstance, creationError)

			foundRepository, found, findError := client.FindRepositoryByName(context.Background(), testProjectNameConstant, testCase.repositoryName)
			require.NoError(testInstance, findError)
			require.Equal(testInstance, testCase.expectFound, found)
			if testCase.expectFound {
				require.Equal(testInstance, testRepositoryNameConstant, foundRepository.Name)
			}
		})
	}
}

func TestCreateRepository(testInstance *testing.T) {
	executor := &stubAzureExecutor{results: []execshell.ExecutionResult{{StandardOutput: testRepositoryCreatePayloadConstant}}}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	createdRepository, createError := client.CreateRepository(context.Background(), testProjectNameConstant, "widget-web")
	require.NoError(testInstance, createError)
	require.Equal(testInstance, "widget-web", createdRepository.Name)

	createArguments := executor.invocations[0].details.Arguments
	require.Equal(testInstance, "repos", createArguments[0])
	require.Equal(testInstance, "create", createArguments[1])
}

func TestCreateRepositoryWrapsExecutionFailures(testInstance *testing.T) {
	executionFailure := errors.New(testExecutionFailureMessageConstant)
	executor := &stubAzureExecutor{failures: []error{executionFailure}}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	_, createError := client.CreateRepository(context.Background(), testProjectNameConstant, testRepositoryNameConstant)
	require.IsType(testInstance, azurecli.OperationError{}, createError)
	require.ErrorIs(testInstance, createError, executionFailure)
}

func TestDeleteRepository(testInstance *testing.T) {
	executor := &stubAzureExecutor{}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, client.DeleteRepository(context.Background(), testProjectNameConstant, testRepositoryIdentifierConstant))
	deleteArguments := executor.invocations[0].details.Arguments
	require.Contains(testInstance, deleteArguments, testRepositoryIdentifierConstant)
	require.Contains(testInstance, deleteArguments, "--yes")
}

func TestListPipelinesAndRuns(testInstance *testing.T) {
	executor := &stubAzureExecutor{results: []execshell.ExecutionResult{
		{StandardOutput: testPipelineListPayloadConstant},
		{StandardOutput: testPipelineRunsPayloadConstant},
	}}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	pipelines, listError := client.ListPipelines(context.Background(), testProjectNameConstant)
	require.NoError(testInstance, listError)
	require.Len(testInstance, pipelines, 2)
	require.Equal(testInstance, 12, pipelines[0].Identifier)

	pipelineRuns, runsError := client.ListPipelineRuns(context.Background(), testProjectNameConstant, pipelines[0].Identifier)
	require.NoError(testInstance, runsError)
	require.Len(testInstance, pipelineRuns, 2)
	require.Equal(testInstance, "inProgress", pipelineRuns[1].State)

	runsArguments := executor.invocations[1].details.Arguments
	require.Contains(testInstance, runsArguments, "--pipeline-id")
	require.Contains(testInstance, runsArguments, "12")
}

func TestCancelPipelineRun(testInstance *testing.T) {
	executor := &stubAzureExecutor{}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, client.CancelPipelineRun(context.Background(), testProjectNameConstant, 101))
	cancelArguments := executor.invocations[0].details.Arguments
	require.Equal(testInstance, []string{"pipelines", "runs", "cancel", "--id", "101", "--project", testProjectNameConstant}, cancelArguments)
}

func TestDeletePipeline(testInstance *testing.T) {
	executor := &stubAzureExecutor{}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, client.DeletePipeline(context.Background(), testProjectNameConstant, 31))
	deleteArguments := executor.invocations[0].details.Arguments
	require.Equal(testInstance, "pipelines", deleteArguments[0])
	require.Contains(testInstance, deleteArguments, "31")
	require.Contains(testInstance, deleteArguments, "--yes")
}

func TestVariableGroupOperations(testInstance *testing.T) {
	executor := &stubAzureExecutor{results: []execshell.ExecutionResult{
		{StandardOutput: testVariableGroupListPayloadConstant},
		{},
	}}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	variableGroups, listError := client.ListVariableGroups(context.Background(), testProjectNameConstant)
	require.NoError(testInstance, listError)
	require.Len(testInstance, variableGroups, 1)
	require.Equal(testInstance, 5, variableGroups[0].Identifier)

	require.NoError(testInstance, client.DeleteVariableGroup(context.Background(), testProjectNameConstant, variableGroups[0].Identifier))
	deleteArguments := executor.invocations[1].details.Arguments
	require.Contains(testInstance, deleteArguments, "--group-id")
	require.Contains(testInstance, deleteArguments, "5")
}

func TestResourceGroupOperations(testInstance *testing.T) {
	executor := &stubAzureExecutor{results: []execshell.ExecutionResult{
		{StandardOutput: testResourceGroupListPayloadConstant},
		{},
	}}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	resourceGroups, listError := client.ListResourceGroups(context.Background(), testSubscriptionNameConstant)
	require.NoError(testInstance, listError)
	require.Len(testInstance, resourceGroups, 1)
	require.Equal(testInstance, testResourceGroupNameConstant, resourceGroups[0].Name)

	require.NoError(testInstance, client.DeleteResourceGroup(context.Background(), testSubscriptionNameConstant, resourceGroups[0].Name))
	deleteArguments := executor.invocations[1].details.Arguments
	require.Equal(testInstance, "group", deleteArguments[0])
	require.Contains(testInstance, deleteArguments, testResourceGroupNameConstant)
	require.Contains(testInstance, deleteArguments, "--yes")
}

func TestListResourceGroupsRequiresSubscription(testInstance *testing.T) {
	client, creationError := azurecli.NewClient(&stubAzureExecutor{})
	require.NoError(testInstance, creationError)

	resourceGroups, listError := client.ListResourceGroups(context.Background(), "")
	require.Nil(testInstance, resourceGroups)
	require.IsType(testInstance, azurecli.InvalidInputError{}, listError)
	require.True(testInstance, strings.Contains(listError.Error(), "subscription"))
}

func TestSetEnvironmentFlowsIntoInvocations(testInstance *testing.T) {
	executor := &stubAzureExecutor{results: []execshell.ExecutionResult{{StandardOutput: testRepositoryListPayloadConstant}}}
	client, creationError := azurecli.NewClient(executor)
	require.NoError(testInstance, creationError)

	client.SetEnvironment(map[string]string{"AZURE_DEVOPS_EXT_PAT": "token-value"})
	_, listError := client.ListRepositories(context.Background(), testProjectNameConstant)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, "token-value", executor.invocations[0].details.EnvironmentVariables["AZURE_DEVOPS_EXT_PAT"])
}
