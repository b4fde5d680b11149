package azurecli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/azops/internal/execshell"
)

const (
	reposSubcommandConstant                  = "repos"
	pipelinesSubcommandConstant              = "pipelines"
	runsSubcommandConstant                   = "runs"
	variableGroupSubcommandConstant          = "variable-group"
	groupSubcommandConstant                  = "group"
	devopsSubcommandConstant                 = "devops"
	extensionSubcommandConstant              = "extension"
	configureSubcommandConstant              = "configure"
	listSubcommandConstant                   = "list"
	createSubcommandConstant                 = "create"
	deleteSubcommandConstant                 = "delete"
	cancelSubcommandConstant                 = "cancel"
	addSubcommandConstant                    = "add"
	nameFlagConstant                         = "--name"
	projectFlagConstant                      = "--project"
	identifierFlagConstant                   = "--id"
	groupIdentifierFlagConstant              = "--group-id"
	pipelineIdentifierFlagConstant           = "--pipeline-id"
	subscriptionFlagConstant                 = "--subscription"
	outputFlagConstant                       = "--output"
	outputJSONValueConstant                  = "json"
	queryFlagConstant                        = "--query"
	defaultsFlagConstant                     = "--defaults"
	assumeYesFlagConstant                    = "--yes"
	devopsExtensionNameConstant              = "azure-devops"
	devopsExtensionQueryConstant             = "[?name=='azure-devops']"
	organizationDefaultTemplateConstant      = "organization=%s"
	organizationURLTemplateConstant          = "https://dev.azure.com/%s/"
	emptyJSONListLiteralConstant             = "[]"
	projectFieldNameConstant                 = "project"
	organizationFieldNameConstant            = "organization"
	repositoryNameFieldNameConstant          = "repository name"
	repositoryIdentifierFieldNameConstant    = "repository identifier"
	subscriptionFieldNameConstant            = "subscription"
	resourceGroupNameFieldNameConstant       = "resource group name"
	requiredValueMessageConstant             = "value required"
	executorNotConfiguredMessageConstant     = "azure cli executor not configured"
	operationErrorMessageTemplateConstant    = "%s operation failed"
	operationErrorWithCauseTemplateConstant  = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant    = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant        = "%s: %s"
	listRepositoriesOperationNameConstant    = OperationName("ListRepositories")
	createRepositoryOperationNameConstant    = OperationName("CreateRepository")
	deleteRepositoryOperationNameConstant    = OperationName("DeleteRepository")
	listPipelinesOperationNameConstant       = OperationName("ListPipelines")
	listPipelineRunsOperationNameConstant    = OperationName("ListPipelineRuns")
	deletePipelineOperationNameConstant      = OperationName("DeletePipeline")
	cancelPipelineRunOperationNameConstant   = OperationName("CancelPipelineRun")
	listVariableGroupsOperationNameConstant  = OperationName("ListVariableGroups")
	deleteVariableGroupOperationNameConstant = OperationName("DeleteVariableGroup")
	listResourceGroupsOperationNameConstant  = OperationName("ListResourceGroups")
	deleteResourceGroupOperationNameConstant = OperationName("DeleteResourceGroup")
	ensureExtensionOperationNameConstant     = OperationName("EnsureDevOpsExtension")
	configureDefaultsOperationNameConstant   = OperationName("ConfigureDefaultOrganization")
	variableGroupIdentifierBaseValueConstant = 10
	pipelineIdentifierFormattingBaseConstant = 10
)

// OperationName describes a named Azure CLI workflow supported by the client.
type OperationName string

// Repository describes an Azure Repos Git repository.
type Repository struct {
	Identifier    string `json:"id"`
	Name          string `json:"name"`
	RemoteURL     string `json:"remoteUrl"`
	DefaultBranch string `json:"defaultBranch"`
}

// Pipeline describes an Azure Pipelines definition.
type Pipeline struct {
	Identifier int    `json:"id"`
	Name       string `json:"name"`
}

// PipelineRun describes a single recorded run of a pipeline.
type PipelineRun struct {
	Identifier int    `json:"id"`
	Status     string `json:"status"`
	State      string `json:"state"`
}

// VariableGroup describes a library variable group.
type VariableGroup struct {
	Identifier int    `json:"id"`
	Name       string `json:"name"`
}

// ResourceGroup describes an Azure resource group.
type ResourceGroup struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// AzureCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type AzureCommandExecutor interface {
	ExecuteAzureCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates Azure CLI invocations through execshell.
type Client struct {
	executor    AzureCommandExecutor
	environment map[string]string
}

// ErrExecutorNotConfigured indicates the client was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for Azure CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// NewClient constructs an Azure CLI client.
func NewClient(executor AzureCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// SetEnvironment registers environment variables injected into every Azure CLI invocation.
func (client *Client) SetEnvironment(environment map[string]string) {
	if client == nil {
		return
	}
	if len(environment) == 0 {
		client.environment = nil
		return
	}
	duplicatedEnvironment := make(map[string]string, len(environment))
	for environmentKey, environmentValue := range environment {
		duplicatedEnvironment[environmentKey] = environmentValue
	}
	client.environment = duplicatedEnvironment
}

// EnsureDevOpsExtension installs the azure-devops CLI extension when it is not yet available.
func (client *Client) EnsureDevOpsExtension(executionContext context.Context) error {
	listResult, listError := client.execute(executionContext, []string{
		extensionSubcommandConstant,
		listSubcommandConstant,
		queryFlagConstant,
		devopsExtensionQueryConstant,
	})
	if listError != nil {
		return OperationError{Operation: ensureExtensionOperationNameConstant, Cause: listError}
	}

	if !strings.Contains(strings.TrimSpace(listResult.StandardOutput), emptyJSONListLiteralConstant) {
		return nil
	}

	_, installError := client.execute(executionContext, []string{
		extensionSubcommandConstant,
		addSubcommandConstant,
		nameFlagConstant,
		devopsExtensionNameConstant,
	})
	if installError != nil {
		return OperationError{Operation: ensureExtensionOperationNameConstant, Cause: installError}
	}
	return nil
}

// ConfigureDefaultOrganization registers the organization URL as the Azure DevOps CLI default.
func (client *Client) ConfigureDefaultOrganization(executionContext context.Context, organization string) error {
	trimmedOrganization := strings.TrimSpace(organization)
	if len(trimmedOrganization) == 0 {
		return InvalidInputError{FieldName: organizationFieldNameConstant, Message: requiredValueMessageConstant}
	}

	organizationURL := fmt.Sprintf(organizationURLTemplateConstant, trimmedOrganization)
	_, configureError := client.execute(executionContext, []string{
		devopsSubcommandConstant,
		configureSubcommandConstant,
		defaultsFlagConstant,
		fmt.Sprintf(organizationDefaultTemplateConstant, organizationURL),
	})
	if configureError != nil {
		return OperationError{Operation: configureDefaultsOperationNameConstant, Cause: configureError}
	}
	return nil
}

// ListRepositories retrieves the Git repositories contained in a project.
func (client *Client) ListRepositories(executionContext context.Context, project string) ([]Repository, error) {
	trimmedProject := strings.TrimSpace(project)
	if len(trimmedProject) == 0 {
		return nil, InvalidInputError{FieldName: projectFieldNameConstant, Message: requiredValueMessageConstant}
	}

	executionResult, executionError := client.execute(executionContext, []string{
		reposSubcommandConstant,
		listSubcommandConstant,
		projectFlagConstant,
		trimmedProject,
		outputFlagConstant,
		outputJSONValueConstant,
	})
	if executionError != nil {
		return nil, OperationError{Operation: listRepositoriesOperationNameConstant, Cause: executionError}
	}

	var repositories []Repository
	if decodeError := json.Unmarshal([]byte(executionResult.StandardOutput), &repositories); decodeError != nil {
		return nil, ResponseDecodingError{Operation: listRepositoriesOperationNameConstant, Cause: decodeError}
	}
	return repositories, nil
}

// FindRepositoryByName locates a repository by case-insensitive name comparison.
func (client *Client) FindRepositoryByName(executionContext context.Context, project string, repositoryName string) (Repository, bool, error) {
	trimmedRepositoryName := strings.TrimSpace(repositoryName)
	if len(trimmedRepositoryName) == 0 {
		return Repository{}, false, InvalidInputError{FieldName: repositoryNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	repositories, listError := client.ListRepositories(executionContext, project)
	if listError != nil {
		return Repository{}, false, listError
	}

	for _, candidateRepository := range repositories {
		if strings.EqualFold(strings.TrimSpace(candidateRepository.Name), trimmedRepositoryName) {
			return candidateRepository, true, nil
		}
	}
	return Repository{}, false, nil
}

// CreateRepository creates a Git repository inside the project.
func (client *Client) CreateRepository(executionContext context.Context, project string, repositoryName string) (Repository, error) {
	trimmedProject := strings.TrimSpace(project)
	if len(trimmedProject) == 0 {
		return Repository{}, InvalidInputError{FieldName: projectFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedRepositoryName := strings.TrimSpace(repositoryName)
	if len(trimmedRepositoryName) == 0 {
		return Repository{}, InvalidInputError{FieldName: repositoryNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	executionResult, executionError := client.execute(executionContext, []string{
		reposSubcommandConstant,
		createSubcommandConstant,
		nameFlagConstant,
		trimmedRepositoryName,
		projectFlagConstant,
		trimmedProject,
		outputFlagConstant,
		outputJSONValueConstant,
	})
	if executionError != nil {
		return Repository{}, OperationError{Operation: createRepositoryOperationNameConstant, Cause: executionError}
	}

	var createdRepository Repository
	if decodeError := json.Unmarshal([]byte(executionResult.StandardOutput), &createdRepository); decodeError != nil {
		return Repository{}, ResponseDecodingError{Operation: createRepositoryOperationNameConstant, Cause: decodeError}
	}
	return createdRepository, nil
}

// DeleteRepository removes a repository by identifier.
func (client *Client) DeleteRepository(executionContext context.Context, project string, repositoryIdentifier string) error {
	trimmedIdentifier := strings.TrimSpace(repositoryIdentifier)
	if len(trimmedIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryIdentifierFieldNameConstant, Message: requiredValueMessageConstant}
	}

	_, executionError := client.execute(executionContext, []string{
		reposSubcommandConstant,
		deleteSubcommandConstant,
		identifierFlagConstant,
		trimmedIdentifier,
		projectFlagConstant,
		strings.TrimSpace(project),
		assumeYesFlagConstant,
	})
	if executionError != nil {
		return OperationError{Operation: deleteRepositoryOperationNameConstant, Cause: executionError}
	}
	return nil
}

// ListPipelines retrieves pipeline definitions contained in a project.
func (client *Client) ListPipelines(executionContext context.Context, project string) ([]Pipeline, error) {
	trimmedProject := strings.TrimSpace(project)
	if len(trimmedProject) == 0 {
		return nil, InvalidInputError{FieldName: projectFieldNameConstant, Message: requiredValueMessageConstant}
	}

	executionResult, executionError := client.execute(executionContext, []string{
		pipelinesSubcommandConstant,
		listSubcommandConstant,
		projectFlagConstant,
		trimmedProject,
		outputFlagConstant,
		outputJSONValueConstant,
	})
	if executionError != nil {
		return nil, OperationError{Operation: listPipelinesOperationNameConstant, Cause: executionError}
	}

	var pipelines []Pipeline
	if decodeError := json.Unmarshal([]byte(executionResult.StandardOutput), &pipelines); decodeError != nil {
		return nil, ResponseDecodingError{Operation: listPipelinesOperationNameConstant, Cause: decodeError}
	}
	return pipelines, nil
}

// ListPipelineRuns retrieves the recorded runs of a single pipeline.
func (client *Client) ListPipelineRuns(executionContext context.Context, project string, pipelineIdentifier int) ([]PipelineRun, error) {
	executionResult, executionError := client.execute(executionContext, []string{
		pipelinesSubcommandConstant,
		runsSubcommandConstant,
		listSubcommandConstant,
		pipelineIdentifierFlagConstant,
		strconv.FormatInt(int64(pipelineIdentifier), pipelineIdentifierFormattingBaseConstant),
		projectFlagConstant,
		strings.TrimSpace(project),
		outputFlagConstant,
		outputJSONValueConstant,
	})
	if executionError != nil {
		return nil, OperationError{Operation: listPipelineRunsOperationNameConstant, Cause: executionError}
	}

	var pipelineRuns []PipelineRun
	if decodeError := json.Unmarshal([]byte(executionResult.StandardOutput), &pipelineRuns); decodeError != nil {
		return nil, ResponseDecodingError{Operation: listPipelineRunsOperationNameConstant, Cause: decodeError}
	}
	return pipelineRuns, nil
}

// CancelPipelineRun cancels a single pipeline run by identifier.
func (client *Client) CancelPipelineRun(executionContext context.Context, project string, runIdentifier int) error {
	_, executionError := client.execute(executionContext, []string{
		pipelinesSubcommandConstant,
		runsSubcommandConstant,
		cancelSubcommandConstant,
		identifierFlagConstant,
		strconv.FormatInt(int64(runIdentifier), pipelineIdentifierFormattingBaseConstant),
		projectFlagConstant,
		strings.TrimSpace(project),
	})
	if executionError != nil {
		return OperationError{Operation: cancelPipelineRunOperationNameConstant, Cause: executionError}
	}
	return nil
}

// DeletePipeline removes a pipeline definition together with its runs.
func (client *Client) DeletePipeline(executionContext context.Context, project string, pipelineIdentifier int) error {
	_, executionError := client.execute(executionContext, []string{
		pipelinesSubcommandConstant,
		deleteSubcommandConstant,
		identifierFlagConstant,
		strconv.FormatInt(int64(pipelineIdentifier), pipelineIdentifierFormattingBaseConstant),
		projectFlagConstant,
		strings.TrimSpace(project),
		assumeYesFlagConstant,
	})
	if executionError != nil {
		return OperationError{Operation: deletePipelineOperationNameConstant, Cause: executionError}
	}
	return nil
}

// ListVariableGroups retrieves the library variable groups contained in a project.
func (client *Client) ListVariableGroups(executionContext context.Context, project string) ([]VariableGroup, error) {
	trimmedProject := strings.TrimSpace(project)
	if len(trimmedProject) == 0 {
		return nil, InvalidInputError{FieldName: projectFieldNameConstant, Message: requiredValueMessageConstant}
	}

	executionResult, executionError := client.execute(executionContext, []string{
		pipelinesSubcommandConstant,
		variableGroupSubcommandConstant,
		listSubcommandConstant,
		projectFlagConstant,
		trimmedProject,
		outputFlagConstant,
		outputJSONValueConstant,
	})
	if executionError != nil {
		return nil, OperationError{Operation: listVariableGroupsOperationNameConstant, Cause: executionError}
	}

	var variableGroups []VariableGroup
	if decodeError := json.Unmarshal([]byte(executionResult.StandardOutput), &variableGroups); decodeError != nil {
		return nil, ResponseDecodingError{Operation: listVariableGroupsOperationNameConstant, Cause: decodeError}
	}
	return variableGroups, nil
}

// DeleteVariableGroup removes a library variable group by identifier.
func (client *Client) DeleteVariableGroup(executionContext context.Context, project string, groupIdentifier int) error {
	_, executionError := client.execute(executionContext, []string{
		pipelinesSubcommandConstant,
		variableGroupSubcommandConstant,
		deleteSubcommandConstant,
		groupIdentifierFlagConstant,
		strconv.FormatInt(int64(groupIdentifier), variableGroupIdentifierBaseValueConstant),
		projectFlagConstant,
		strings.TrimSpace(project),
		assumeYesFlagConstant,
	})
	if executionError != nil {
		return OperationError{Operation: deleteVariableGroupOperationNameConstant, Cause: executionError}
	}
	return nil
}

// ListResourceGroups retrieves the resource groups contained in a subscription.
func (client *Client) ListResourceGroups(executionContext context.Context, subscription string) ([]ResourceGroup, error) {
	trimmedSubscription := strings.TrimSpace(subscription)
	if len(trimmedSubscription) == 0 {
		return nil, InvalidInputError{FieldName: subscriptionFieldNameConstant, Message: requiredValueMessageConstant}
	}

	executionResult, executionError := client.execute(executionContext, []string{
		groupSubcommandConstant,
		listSubcommandConstant,
		subscriptionFlagConstant,
		trimmedSubscription,
		outputFlagConstant,
		outputJSONValueConstant,
	})
	if executionError != nil {
		return nil, OperationError{Operation: listResourceGroupsOperationNameConstant, Cause: executionError}
	}

	var resourceGroups []ResourceGroup
	if decodeError := json.Unmarshal([]byte(executionResult.StandardOutput), &resourceGroups); decodeError != nil {
		return nil, ResponseDecodingError{Operation: listResourceGroupsOperationNameConstant, Cause: decodeError}
	}
	return resourceGroups, nil
}

// DeleteResourceGroup removes a resource group and everything it contains.
func (client *Client) DeleteResourceGroup(executionContext context.Context, subscription string, resourceGroupName string) error {
	trimmedResourceGroupName := strings.TrimSpace(resourceGroupName)
	if len(trimmedResourceGroupName) == 0 {
		return InvalidInputError{FieldName: resourceGroupNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	_, executionError := client.execute(executionContext, []string{
		groupSubcommandConstant,
		deleteSubcommandConstant,
		nameFlagConstant,
		trimmedResourceGroupName,
		subscriptionFlagConstant,
		strings.TrimSpace(subscription),
		assumeYesFlagConstant,
	})
	if executionError != nil {
		return OperationError{Operation: deleteResourceGroupOperationNameConstant, Cause: executionError}
	}
	return nil
}

func (client *Client) execute(executionContext context.Context, arguments []string) (execshell.ExecutionResult, error) {
	commandDetails := execshell.CommandDetails{Arguments: arguments}
	if len(client.environment) > 0 {
		commandDetails.EnvironmentVariables = client.environment
	}
	return client.executor.ExecuteAzureCLI(executionContext, commandDetails)
}
