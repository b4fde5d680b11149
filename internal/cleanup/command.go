package cleanup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/azops/internal/azureauth"
	"github.com/temirov/azops/internal/azurecli"
	"github.com/temirov/azops/internal/execshell"
	"github.com/temirov/azops/internal/ui"
)

const (
	cleanupCommandUseConstant                  = "cleanup"
	cleanupCommandShortDescriptionConstant     = "Delete Azure DevOps and Azure resources in bulk"
	cleanupCommandLongDescriptionConstant      = "cleanup removes repositories, pipelines, library variable groups, or resource groups after an explicit confirmation."
	reposCommandUseConstant                    = "repos"
	reposCommandShortDescriptionConstant       = "Delete Azure Repos repositories in a project"
	pipelinesCommandUseConstant                = "pipelines"
	pipelinesCommandShortDescriptionConstant   = "Delete Azure Pipelines definitions in a project"
	libraryCommandUseConstant                  = "library"
	libraryCommandShortDescriptionConstant     = "Delete library variable groups in a project"
	groupsCommandUseConstant                   = "groups"
	groupsCommandShortDescriptionConstant      = "Delete resource groups in a subscription"
	cleanupUnexpectedArgumentsMessageConstant  = "cleanup commands do not accept positional arguments"
	reposExecutionErrorTemplateConstant        = "cleanup repos failed: %w"
	pipelinesExecutionErrorTemplateConstant    = "cleanup pipelines failed: %w"
	libraryExecutionErrorTemplateConstant      = "cleanup library failed: %w"
	groupsExecutionErrorTemplateConstant       = "cleanup groups failed: %w"
	cleanupOrganizationFlagNameConstant        = "organization"
	cleanupOrganizationFlagDescriptionConstant = "Azure DevOps organization name"
	cleanupProjectFlagNameConstant             = "project"
	cleanupProjectFlagDescriptionConstant      = "Azure DevOps project name"
	cleanupSubscriptionFlagNameConstant        = "subscription"
	cleanupSubscriptionFlagDescriptionConstant = "Azure subscription name or identifier"
	cleanupExcludeFlagNameConstant             = "exclude"
	cleanupExcludeFlagDescriptionConstant      = "Resource names to keep (repeatable)"
	cleanupAssumeYesFlagNameConstant           = "yes"
	cleanupAssumeYesFlagDescriptionConstant    = "Skip the confirmation prompt"
	cleanupDryRunFlagNameConstant              = "dry-run"
	cleanupDryRunFlagDescriptionConstant       = "Preview deletions without modifying Azure"
	cleanupRunsOnlyFlagNameConstant            = "runs-only"
	cleanupRunsOnlyFlagDescriptionConstant     = "Cancel in-progress pipeline runs without deleting the pipelines"
	cleanupPATSourceFlagNameConstant           = "pat-source"
	cleanupPATSourceFlagDescriptionConstant    = "Personal access token source (env:NAME or file:/path)"
	cleanupPATSourceParseErrorTemplate         = "invalid token source: %w"
	cleanupPATResolutionErrorTemplate          = "unable to resolve personal access token: %w"
	cleanupPATEnvironmentVariableNameConstant  = "AZURE_DEVOPS_EXT_PAT"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current cleanup configuration.
type ConfigurationProvider func() Configuration

// AzureCleanupClient aggregates the Azure CLI operations cleanup commands rely on.
type AzureCleanupClient interface {
	RepositoryCleanupClient
	PipelineCleanupClient
	LibraryGroupCleanupClient
	ResourceGroupCleanupClient
}

// ClientResolver creates Azure CLI clients for cleanup commands.
type ClientResolver interface {
	Resolve(logger *zap.Logger, environment map[string]string) (AzureCleanupClient, error)
}

// CommandBuilder assembles the cleanup command hierarchy.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ClientResolver        ClientResolver
	EnvironmentLookup     azureauth.EnvironmentLookup
	FileReader            azureauth.FileReader
	PATResolver           azureauth.PATResolver
	Input                 io.Reader
	Output                io.Writer
	// HumanReadableLoggingProvider reports whether console-formatted logging is active.
	HumanReadableLoggingProvider func() bool
}

type commonCleanupInputs struct {
	organization string
	project      string
	subscription string
	exclusions   []string
	assumeYes    bool
	dryRun       bool
	environment  map[string]string
}

// Build constructs the cleanup command with its subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	cleanupCommand := &cobra.Command{
		Use:   cleanupCommandUseConstant,
		Short: cleanupCommandShortDescriptionConstant,
		Long:  cleanupCommandLongDescriptionConstant,
	}

	reposCommand := &cobra.Command{
		Use:   reposCommandUseConstant,
		Short: reposCommandShortDescriptionConstant,
		RunE:  builder.runRepositories,
	}
	builder.registerDevOpsFlags(reposCommand)

	pipelinesCommand := &cobra.Command{
		Use:   pipelinesCommandUseConstant,
		Short: pipelinesCommandShortDescriptionConstant,
		RunE:  builder.runPipelines,
	}
	builder.registerDevOpsFlags(pipelinesCommand)
	pipelinesCommand.Flags().Bool(cleanupRunsOnlyFlagNameConstant, false, cleanupRunsOnlyFlagDescriptionConstant)

	libraryCommand := &cobra.Command{
		Use:   libraryCommandUseConstant,
		Short: libraryCommandShortDescriptionConstant,
		RunE:  builder.runLibraryGroups,
	}
	builder.registerDevOpsFlags(libraryCommand)

	groupsCommand := &cobra.Command{
		Use:   groupsCommandUseConstant,
		Short: groupsCommandShortDescriptionConstant,
		RunE:  builder.runResourceGroups,
	}
	builder.registerSharedFlags(groupsCommand)
	groupsCommand.Flags().String(cleanupSubscriptionFlagNameConstant, "", cleanupSubscriptionFlagDescriptionConstant)

	cleanupCommand.AddCommand(reposCommand, pipelinesCommand, libraryCommand, groupsCommand)

	return cleanupCommand, nil
}

func (builder *CommandBuilder) registerSharedFlags(command *cobra.Command) {
	command.Flags().StringSlice(cleanupExcludeFlagNameConstant, nil, cleanupExcludeFlagDescriptionConstant)
	command.Flags().Bool(cleanupAssumeYesFlagNameConstant, false, cleanupAssumeYesFlagDescriptionConstant)
	command.Flags().Bool(cleanupDryRunFlagNameConstant, false, cleanupDryRunFlagDescriptionConstant)
}

func (builder *CommandBuilder) registerDevOpsFlags(command *cobra.Command) {
	builder.registerSharedFlags(command)
	command.Flags().String(cleanupOrganizationFlagNameConstant, "", cleanupOrganizationFlagDescriptionConstant)
	command.Flags().String(cleanupProjectFlagNameConstant, "", cleanupProjectFlagDescriptionConstant)
	command.Flags().String(cleanupPATSourceFlagNameConstant, "", cleanupPATSourceFlagDescriptionConstant)
}

func (builder *CommandBuilder) runRepositories(command *cobra.Command, arguments []string) error {
	inputs, inputsError := builder.parseCommonInputs(command, arguments, true)
	if inputsError != nil {
		return inputsError
	}

	azureClient, clientError := builder.resolveClient(inputs.environment)
	if clientError != nil {
		return clientError
	}

	service, serviceError := NewRepositoriesService(RepositoriesDependencies{
		AzureClient: azureClient,
		Prompter:    builder.resolvePrompter(),
		Output:      builder.resolveOutput(),
	})
	if serviceError != nil {
		return serviceError
	}

	executionError := service.Execute(command.Context(), RepositoriesOptions{
		Organization: inputs.organization,
		Project:      inputs.project,
		Exclusions:   inputs.exclusions,
		DryRun:       inputs.dryRun,
		AssumeYes:    inputs.assumeYes,
	})
	if executionError != nil {
		return fmt.Errorf(reposExecutionErrorTemplateConstant, executionError)
	}
	return nil
}

func (builder *CommandBuilder) runPipelines(command *cobra.Command, arguments []string) error {
	inputs, inputsError := builder.parseCommonInputs(command, arguments, true)
	if inputsError != nil {
		return inputsError
	}

	runsOnlyValue, runsOnlyError := command.Flags().GetBool(cleanupRunsOnlyFlagNameConstant)
	if runsOnlyError != nil {
		return runsOnlyError
	}

	azureClient, clientError := builder.resolveClient(inputs.environment)
	if clientError != nil {
		return clientError
	}

	service, serviceError := NewPipelinesService(PipelinesDependencies{
		AzureClient: azureClient,
		Prompter:    builder.resolvePrompter(),
		Output:      builder.resolveOutput(),
	})
	if serviceError != nil {
		return serviceError
	}

	executionError := service.Execute(command.Context(), PipelinesOptions{
		Organization: inputs.organization,
		Project:      inputs.project,
		Exclusions:   inputs.exclusions,
		DryRun:       inputs.dryRun,
		AssumeYes:    inputs.assumeYes,
		RunsOnly:     runsOnlyValue,
	})
	if executionError != nil {
		return fmt.Errorf(pipelinesExecutionErrorTemplateConstant, executionError)
	}
	return nil
}

func (builder *CommandBuilder) runLibraryGroups(command *cobra.Command, arguments []string) error {
	inputs, inputsError := builder.parseCommonInputs(command, arguments, true)
	if inputsError != nil {
		return inputsError
	}

	azureClient, clientError := builder.resolveClient(inputs.environment)
	if clientError != nil {
		return clientError
	}

	service, serviceError := NewLibraryGroupsService(LibraryGroupsDependencies{
		AzureClient: azureClient,
		Prompter:    builder.resolvePrompter(),
		Output:      builder.resolveOutput(),
	})
	if serviceError != nil {
		return serviceError
	}

	executionError := service.Execute(command.Context(), LibraryGroupsOptions{
		Organization: inputs.organization,
		Project:      inputs.project,
		Exclusions:   inputs.exclusions,
		DryRun:       inputs.dryRun,
		AssumeYes:    inputs.assumeYes,
	})
	if executionError != nil {
		return fmt.Errorf(libraryExecutionErrorTemplateConstant, executionError)
	}
	return nil
}

func (builder *CommandBuilder) runResourceGroups(command *cobra.Command, arguments []string) error {
	inputs, inputsError := builder.parseCommonInputs(command, arguments, false)
	if inputsError != nil {
		return inputsError
	}

	azureClient, clientError := builder.resolveClient(nil)
	if clientError != nil {
		return clientError
	}

	service, serviceError := NewResourceGroupsService(ResourceGroupsDependencies{
		AzureClient: azureClient,
		Prompter:    builder.resolvePrompter(),
		Output:      builder.resolveOutput(),
	})
	if serviceError != nil {
		return serviceError
	}

	executionError := service.Execute(command.Context(), ResourceGroupsOptions{
		Subscription: inputs.subscription,
		Exclusions:   inputs.exclusions,
		DryRun:       inputs.dryRun,
		AssumeYes:    inputs.assumeYes,
	})
	if executionError != nil {
		return fmt.Errorf(groupsExecutionErrorTemplateConstant, executionError)
	}
	return nil
}

func (builder *CommandBuilder) parseCommonInputs(command *cobra.Command, arguments []string, requiresDevOpsAccess bool) (commonCleanupInputs, error) {
	if len(arguments) > 0 {
		return commonCleanupInputs{}, errors.New(cleanupUnexpectedArgumentsMessageConstant)
	}

	configuration := builder.resolveConfiguration()
	inputs := commonCleanupInputs{}

	exclusionValues, exclusionsError := command.Flags().GetStringSlice(cleanupExcludeFlagNameConstant)
	if exclusionsError != nil {
		return commonCleanupInputs{}, exclusionsError
	}
	inputs.exclusions = sanitizeExclusions(append(exclusionValues, configuration.Exclusions...))

	inputs.assumeYes = configuration.AssumeYes
	if command.Flags().Changed(cleanupAssumeYesFlagNameConstant) {
		assumeYesValue, assumeYesError := command.Flags().GetBool(cleanupAssumeYesFlagNameConstant)
		if assumeYesError != nil {
			return commonCleanupInputs{}, assumeYesError
		}
		inputs.assumeYes = assumeYesValue
	}

	inputs.dryRun = configuration.DryRun
	if command.Flags().Changed(cleanupDryRunFlagNameConstant) {
		dryRunValue, dryRunError := command.Flags().GetBool(cleanupDryRunFlagNameConstant)
		if dryRunError != nil {
			return commonCleanupInputs{}, dryRunError
		}
		inputs.dryRun = dryRunValue
	}

	if !requiresDevOpsAccess {
		subscriptionValue, subscriptionError := stringFlagWithFallback(command, cleanupSubscriptionFlagNameConstant, configuration.Subscription)
		if subscriptionError != nil {
			return commonCleanupInputs{}, subscriptionError
		}
		inputs.subscription = subscriptionValue
		return inputs, nil
	}

	organizationValue, organizationError := stringFlagWithFallback(command, cleanupOrganizationFlagNameConstant, configuration.Organization)
	if organizationError != nil {
		return commonCleanupInputs{}, organizationError
	}
	inputs.organization = organizationValue

	projectValue, projectError := stringFlagWithFallback(command, cleanupProjectFlagNameConstant, configuration.Project)
	if projectError != nil {
		return commonCleanupInputs{}, projectError
	}
	inputs.project = projectValue

	patSourceValue, patSourceError := stringFlagWithFallback(command, cleanupPATSourceFlagNameConstant, configuration.PATSource)
	if patSourceError != nil {
		return commonCleanupInputs{}, patSourceError
	}
	if len(strings.TrimSpace(patSourceValue)) == 0 {
		patSourceValue = defaultCleanupPATSourceValueConstant
	}
	parsedPATSource, patSourceParseError := azureauth.ParsePATSource(patSourceValue)
	if patSourceParseError != nil {
		return commonCleanupInputs{}, fmt.Errorf(cleanupPATSourceParseErrorTemplate, patSourceParseError)
	}

	patResolver := builder.PATResolver
	if patResolver == nil {
		patResolver = azureauth.NewPATResolver(builder.EnvironmentLookup, builder.FileReader)
	}
	personalAccessToken, resolutionError := patResolver.ResolvePersonalAccessToken(command.Context(), parsedPATSource)
	if resolutionError != nil {
		return commonCleanupInputs{}, fmt.Errorf(cleanupPATResolutionErrorTemplate, resolutionError)
	}
	inputs.environment = map[string]string{cleanupPATEnvironmentVariableNameConstant: personalAccessToken}

	return inputs, nil
}

func (builder *CommandBuilder) resolveClient(environment map[string]string) (AzureCleanupClient, error) {
	logger := builder.resolveLogger()
	if builder.ClientResolver != nil {
		return builder.ClientResolver.Resolve(logger, environment)
	}

	defaultResolver := &DefaultClientResolver{HumanReadableLogging: builder.humanReadableLoggingEnabled()}
	return defaultResolver.Resolve(logger, environment)
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolvePrompter() ConfirmationPrompter {
	input := builder.Input
	if input == nil {
		input = os.Stdin
	}
	return NewIOConfirmationPrompter(input, builder.resolveOutput())
}

func (builder *CommandBuilder) resolveOutput() io.Writer {
	if builder.Output != nil {
		return builder.Output
	}
	return os.Stdout
}

// DefaultClientResolver wires the shell executor behind an Azure CLI client.
type DefaultClientResolver struct {
	HumanReadableLogging bool
}

// Resolve constructs the Azure CLI client with production dependencies.
func (resolver *DefaultClientResolver) Resolve(logger *zap.Logger, environment map[string]string) (AzureCleanupClient, error) {
	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), resolver.HumanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}
	if resolver.HumanReadableLogging {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	azureClient, clientError := azurecli.NewClient(shellExecutor)
	if clientError != nil {
		return nil, clientError
	}
	azureClient.SetEnvironment(environment)

	return azureClient, nil
}

func stringFlagWithFallback(command *cobra.Command, flagName string, configurationValue string) (string, error) {
	flagValue, flagError := command.Flags().GetString(flagName)
	if flagError != nil {
		return "", flagError
	}
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue, nil
	}
	return strings.TrimSpace(configurationValue), nil
}
