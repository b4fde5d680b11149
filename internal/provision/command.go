package provision

import (
	"context"
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
	"github.com/temirov/azops/internal/gitrepo"
	"github.com/temirov/azops/internal/ui"
)

const (
	provisionCommandUseConstant              = "provision"
	provisionCommandShortDescriptionConstant = "Provision an Azure Repos repository and publish local content"
	provisionCommandLongDescriptionConstant  = "provision creates the repository in Azure DevOps when absent, replaces local git history with a single commit, and pushes it with upstream tracking."
	unexpectedArgumentsErrorMessageConstant  = "provision does not accept positional arguments"
	commandExecutionErrorTemplateConstant    = "provision failed: %w"
	organizationFlagNameConstant             = "organization"
	organizationFlagDescriptionConstant      = "Azure DevOps organization name"
	projectFlagNameConstant                  = "project"
	projectFlagDescriptionConstant           = "Azure DevOps project name"
	repositoryFlagNameConstant               = "repository"
	repositoryFlagDescriptionConstant        = "Repository name to provision"
	directoryFlagNameConstant                = "directory"
	directoryFlagDescriptionConstant         = "Local directory whose content is published"
	branchFlagNameConstant                   = "branch"
	branchFlagDescriptionConstant            = "Initial branch name"
	messageFlagNameConstant                  = "message"
	messageFlagDescriptionConstant           = "Commit message for the single published commit"
	patSourceFlagNameConstant                = "pat-source"
	patSourceFlagDescriptionConstant         = "Personal access token source (env:NAME or file:/path)"
	dryRunFlagNameConstant                   = "dry-run"
	dryRunFlagDescriptionConstant            = "Preview planned changes without creating the repository or rewriting history"
	patSourceParseErrorTemplateConstant      = "invalid token source: %w"
	patResolutionErrorTemplateConstant       = "unable to resolve personal access token: %w"
	patEnvironmentVariableNameConstant       = "AZURE_DEVOPS_EXT_PAT"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current provision configuration.
type ConfigurationProvider func() Configuration

// ProvisionExecutor runs the provisioning workflow.
type ProvisionExecutor interface {
	Execute(executionContext context.Context, options Options) error
}

// ServiceResolver creates provision executors for the command.
type ServiceResolver interface {
	Resolve(logger *zap.Logger, environment map[string]string) (ProvisionExecutor, error)
}

// CommandBuilder assembles the provision command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ServiceResolver       ServiceResolver
	EnvironmentLookup     azureauth.EnvironmentLookup
	FileReader            azureauth.FileReader
	PATResolver           azureauth.PATResolver
	Output                io.Writer
	// HumanReadableLoggingProvider reports whether console-formatted logging is active.
	HumanReadableLoggingProvider func() bool
}

// Build constructs the provision command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	provisionCommand := &cobra.Command{
		Use:   provisionCommandUseConstant,
		Short: provisionCommandShortDescriptionConstant,
		Long:  provisionCommandLongDescriptionConstant,
		RunE:  builder.runProvision,
	}

	provisionCommand.Flags().String(organizationFlagNameConstant, "", organizationFlagDescriptionConstant)
	provisionCommand.Flags().String(projectFlagNameConstant, "", projectFlagDescriptionConstant)
	provisionCommand.Flags().String(repositoryFlagNameConstant, "", repositoryFlagDescriptionConstant)
	provisionCommand.Flags().String(directoryFlagNameConstant, "", directoryFlagDescriptionConstant)
	provisionCommand.Flags().String(branchFlagNameConstant, "", branchFlagDescriptionConstant)
	provisionCommand.Flags().String(messageFlagNameConstant, "", messageFlagDescriptionConstant)
	provisionCommand.Flags().String(patSourceFlagNameConstant, "", patSourceFlagDescriptionConstant)
	provisionCommand.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)

	return provisionCommand, nil
}

func (builder *CommandBuilder) runProvision(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	provisionOptions, patSource, optionsError := builder.parseProvisionOptions(command)
	if optionsError != nil {
		return optionsError
	}

	environment, environmentError := builder.resolveSubprocessEnvironment(command, patSource)
	if environmentError != nil {
		return environmentError
	}

	logger := builder.resolveLogger()
	provisionService, serviceError := builder.resolveProvisionService(logger, environment)
	if serviceError != nil {
		return serviceError
	}

	if executionError := provisionService.Execute(command.Context(), provisionOptions); executionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, executionError)
	}

	return nil
}

func (builder *CommandBuilder) parseProvisionOptions(command *cobra.Command) (Options, azureauth.PATSourceConfiguration, error) {
	configuration := builder.resolveConfiguration()

	organizationValue, organizationError := stringFlagWithFallback(command, organizationFlagNameConstant, configuration.Organization)
	if organizationError != nil {
		return Options{}, azureauth.PATSourceConfiguration{}, organizationError
	}

	projectValue, projectError := stringFlagWithFallback(command, projectFlagNameConstant, configuration.Project)
	if projectError != nil {
		return Options{}, azureauth.PATSourceConfiguration{}, projectError
	}

	repositoryValue, repositoryError := stringFlagWithFallback(command, repositoryFlagNameConstant, configuration.Repository)
	if repositoryError != nil {
		return Options{}, azureauth.PATSourceConfiguration{}, repositoryError
	}

	directoryValue, directoryError := stringFlagWithFallback(command, directoryFlagNameConstant, configuration.Directory)
	if directoryError != nil {
		return Options{}, azureauth.PATSourceConfiguration{}, directoryError
	}
	directoryValue = provisionHomeDirectoryExpander.Expand(directoryValue)

	branchValue, branchError := stringFlagWithFallback(command, branchFlagNameConstant, configuration.Branch)
	if branchError != nil {
		return Options{}, azureauth.PATSourceConfiguration{}, branchError
	}

	messageValue, messageError := stringFlagWithFallback(command, messageFlagNameConstant, configuration.CommitMessage)
	if messageError != nil {
		return Options{}, azureauth.PATSourceConfiguration{}, messageError
	}

	patSourceValue, patSourceFlagError := stringFlagWithFallback(command, patSourceFlagNameConstant, configuration.PATSource)
	if patSourceFlagError != nil {
		return Options{}, azureauth.PATSourceConfiguration{}, patSourceFlagError
	}
	if len(strings.TrimSpace(patSourceValue)) == 0 {
		patSourceValue = defaultPATSourceValueConstant
	}
	parsedPATSource, patSourceParseError := azureauth.ParsePATSource(patSourceValue)
	if patSourceParseError != nil {
		return Options{}, azureauth.PATSourceConfiguration{}, fmt.Errorf(patSourceParseErrorTemplateConstant, patSourceParseError)
	}

	dryRunValue := configuration.DryRun
	if command.Flags().Changed(dryRunFlagNameConstant) {
		flagDryRunValue, dryRunFlagError := command.Flags().GetBool(dryRunFlagNameConstant)
		if dryRunFlagError != nil {
			return Options{}, azureauth.PATSourceConfiguration{}, dryRunFlagError
		}
		dryRunValue = flagDryRunValue
	}

	provisionOptions := Options{
		Organization:   organizationValue,
		Project:        projectValue,
		RepositoryName: repositoryValue,
		Directory:      directoryValue,
		BranchName:     branchValue,
		CommitMessage:  messageValue,
		DryRun:         dryRunValue,
	}

	return provisionOptions, parsedPATSource, nil
}

func (builder *CommandBuilder) resolveSubprocessEnvironment(command *cobra.Command, patSource azureauth.PATSourceConfiguration) (map[string]string, error) {
	patResolver := builder.PATResolver
	if patResolver == nil {
		patResolver = azureauth.NewPATResolver(builder.EnvironmentLookup, builder.FileReader)
	}

	personalAccessToken, resolutionError := patResolver.ResolvePersonalAccessToken(command.Context(), patSource)
	if resolutionError != nil {
		return nil, fmt.Errorf(patResolutionErrorTemplateConstant, resolutionError)
	}

	return map[string]string{patEnvironmentVariableNameConstant: personalAccessToken}, nil
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

func (builder *CommandBuilder) resolveProvisionService(logger *zap.Logger, environment map[string]string) (ProvisionExecutor, error) {
	if builder.ServiceResolver != nil {
		return builder.ServiceResolver.Resolve(logger, environment)
	}

	defaultResolver := &DefaultServiceResolver{
		Output:               builder.resolveOutput(),
		HumanReadableLogging: builder.humanReadableLoggingEnabled(),
	}

	return defaultResolver.Resolve(logger, environment)
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveOutput() io.Writer {
	if builder.Output != nil {
		return builder.Output
	}
	return os.Stdout
}

// DefaultServiceResolver wires the shell executor, Azure CLI client, and git
// manager behind a provisioning service.
type DefaultServiceResolver struct {
	Output               io.Writer
	HumanReadableLogging bool
}

// Resolve constructs the provisioning service with production dependencies.
func (resolver *DefaultServiceResolver) Resolve(logger *zap.Logger, environment map[string]string) (ProvisionExecutor, error) {
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

	gitManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return nil, managerError
	}
	gitManager.SetPushCredential(environment[patEnvironmentVariableNameConstant])

	return NewService(Dependencies{
		AzureClient: azureClient,
		GitManager:  gitManager,
		Output:      resolver.Output,
	})
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
