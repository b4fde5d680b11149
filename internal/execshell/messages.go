package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitInitSubcommandNameConstant      = "init"
	gitRemoteSubcommandNameConstant    = "remote"
	gitRemoteAddSubcommandNameConstant = "add"
	gitAddSubcommandNameConstant       = "add"
	gitCommitSubcommandNameConstant    = "commit"
	gitPushSubcommandNameConstant      = "push"
	gitMessageFlagConstant             = "-m"
)

const (
	gitInitStartTemplateConstant               = "Initializing repository in %s"
	gitInitSuccessTemplateConstant             = "Initialized repository in %s"
	gitInitFailureTemplateConstant             = "Failed to initialize repository in %s (exit code %d%s)"
	gitInitExecutionFailureTemplateConstant    = "Unable to initialize repository in %s: %s"
	gitRemoteAddStartTemplateConstant          = "Registering %s remote for %s as %s"
	gitRemoteAddSuccessTemplateConstant        = "%s remote for %s now points to %s"
	gitRemoteAddFailureTemplateConstant        = "Failed to register %s remote for %s as %s (exit code %d%s)"
	gitRemoteAddExecutionFailureTemplate       = "Unable to register %s remote for %s as %s: %s"
	gitStageStartTemplateConstant              = "Staging %s in %s"
	gitStageSuccessTemplateConstant            = "Staged %s in %s"
	gitStageFailureTemplateConstant            = "Failed to stage %s in %s (exit code %d%s)"
	gitStageExecutionFailureTemplateConstant   = "Unable to stage %s in %s: %s"
	gitCommitStartTemplateConstant             = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant           = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant           = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant  = "Unable to create commit in %s with message %q: %s"
	gitPushStartTemplateConstant               = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant             = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant             = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant    = "Unable to push %s to %s from %s: %s"
	gitStageEverythingLabelConstant            = "all files"
	gitPushDefaultRemoteLabelConstant          = "origin"
	gitPushDefaultReferenceLabelConstant       = "the current branch"
	gitStageAllFlagConstant                    = "--all"
	gitPushArgumentsBeforeReferencesCountValue = 1
)

const (
	azureReposSubcommandNameConstant          = "repos"
	azurePipelinesSubcommandNameConstant      = "pipelines"
	azureGroupSubcommandNameConstant          = "group"
	azureDevOpsSubcommandNameConstant         = "devops"
	azureExtensionSubcommandNameConstant      = "extension"
	azureListSubcommandNameConstant           = "list"
	azureCreateSubcommandNameConstant         = "create"
	azureDeleteSubcommandNameConstant         = "delete"
	azureRunsSubcommandNameConstant           = "runs"
	azureVariableGroupSubcommandNameConstant  = "variable-group"
	azureConfigureSubcommandNameConstant      = "configure"
	azureAddSubcommandNameConstant            = "add"
	azureNameFlagConstant                     = "--name"
	azureProjectFlagConstant                  = "--project"
	azureIdentifierFlagConstant               = "--id"
	azureGroupIdentifierFlagConstant          = "--group-id"
	azureSubscriptionFlagConstant             = "--subscription"
	azureCurrentProjectLabelConstant          = "the configured project"
	azureCurrentSubscriptionLabelConstant     = "the current subscription"
	azureRepositoryEntityLabelConstant        = "repository"
	azurePipelineEntityLabelConstant          = "pipeline"
	azurePipelineRunEntityLabelConstant       = "pipeline runs"
	azureVariableGroupEntityLabelConstant     = "variable group"
	azureResourceGroupEntityLabelConstant     = "resource group"
	azureListStartTemplateConstant            = "Listing %s in %s"
	azureListSuccessTemplateConstant          = "Listed %s in %s"
	azureListFailureTemplateConstant          = "Failed to list %s in %s (exit code %d%s)"
	azureListExecutionFailureTemplateConstant = "Unable to list %s in %s: %s"
	azureCreateStartTemplateConstant          = "Creating %s %s in %s"
	azureCreateSuccessTemplateConstant        = "Created %s %s in %s"
	azureCreateFailureTemplateConstant        = "Failed to create %s %s in %s (exit code %d%s)"
	azureCreateExecutionFailureTemplate       = "Unable to create %s %s in %s: %s"
	azureDeleteStartTemplateConstant          = "Deleting %s %s from %s"
	azureDeleteSuccessTemplateConstant        = "Deleted %s %s from %s"
	azureDeleteFailureTemplateConstant        = "Failed to delete %s %s from %s (exit code %d%s)"
	azureDeleteExecutionFailureTemplate       = "Unable to delete %s %s from %s: %s"
	azureConfigureStartMessageConstant        = "Configuring Azure DevOps defaults"
	azureConfigureSuccessMessageConstant      = "Configured Azure DevOps defaults"
	azureConfigureFailureTemplateConstant     = "Failed to configure Azure DevOps defaults (exit code %d%s)"
	azureConfigureExecutionFailureTemplate    = "Unable to configure Azure DevOps defaults: %s"
	azureExtensionStartTemplateConstant       = "Ensuring Azure CLI extension availability"
	azureExtensionSuccessTemplateConstant     = "Azure CLI extension step completed"
	azureExtensionFailureTemplateConstant     = "Azure CLI extension step failed (exit code %d%s)"
	azureExtensionExecutionFailureTemplate    = "Azure CLI extension step failed: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandAzure:
		return formatter.describeAzureMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitInitSubcommandNameConstant:
		return formatter.describeGitInitMessage(command, result, failure, stage)
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(command, result, failure, stage)
	case gitAddSubcommandNameConstant:
		return formatter.describeGitStageMessage(command, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describeGitPushMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitInitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitInitStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitInitSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitInitFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitInitExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 || strings.TrimSpace(arguments[1]) != gitRemoteAddSubcommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
	remoteURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, 3))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoteAddStartTemplateConstant, remoteName, workingDirectory, remoteURL)
	case messageStageSuccess:
		return fmt.Sprintf(gitRemoteAddSuccessTemplateConstant, remoteName, workingDirectory, remoteURL)
	case messageStageFailure:
		return fmt.Sprintf(gitRemoteAddFailureTemplateConstant, remoteName, workingDirectory, remoteURL, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitRemoteAddExecutionFailureTemplate, remoteName, workingDirectory, remoteURL, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitStageMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	stageTarget := gitStageEverythingLabelConstant
	if !containsArgument(command.Details.Arguments, gitStageAllFlagConstant) {
		stageTarget = formatter.ensureValue(formatter.argumentAtIndex(command.Details.Arguments, 1))
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitStageStartTemplateConstant, stageTarget, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitStageSuccessTemplateConstant, stageTarget, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitStageFailureTemplateConstant, stageTarget, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitStageExecutionFailureTemplateConstant, stageTarget, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	commitMessage := formatter.ensureValue(formatter.argumentAfterFlag(command.Details.Arguments, gitMessageFlagConstant))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	case messageStageFailure:
		return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)

	positionalArguments := make([]string, 0, len(command.Details.Arguments))
	for argumentIndex, argumentValue := range command.Details.Arguments {
		if argumentIndex < gitPushArgumentsBeforeReferencesCountValue {
			continue
		}
		trimmedArgument := strings.TrimSpace(argumentValue)
		if strings.HasPrefix(trimmedArgument, "-") {
			continue
		}
		positionalArguments = append(positionalArguments, trimmedArgument)
	}

	remoteName := gitPushDefaultRemoteLabelConstant
	referenceName := gitPushDefaultReferenceLabelConstant
	if len(positionalArguments) > 0 {
		remoteName = positionalArguments[0]
	}
	if len(positionalArguments) > 1 {
		referenceName = positionalArguments[1]
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitPushStartTemplateConstant, referenceName, remoteName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitPushSuccessTemplateConstant, referenceName, remoteName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitPushFailureTemplateConstant, referenceName, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitPushExecutionFailureTemplateConstant, referenceName, remoteName, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeAzureMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(arguments[0]) {
	case azureReposSubcommandNameConstant:
		return formatter.describeAzureEntityMessage(command, result, failure, stage, azureRepositoryEntityLabelConstant, arguments[1:])
	case azurePipelinesSubcommandNameConstant:
		return formatter.describeAzurePipelinesMessage(command, result, failure, stage, arguments[1:])
	case azureGroupSubcommandNameConstant:
		return formatter.describeAzureResourceGroupMessage(command, result, failure, stage, arguments[1:])
	case azureDevOpsSubcommandNameConstant:
		return formatter.describeAzureConfigureMessage(command, result, failure, stage)
	case azureExtensionSubcommandNameConstant:
		return formatter.describeAzureExtensionMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeAzurePipelinesMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, remainingArguments []string) string {
	if len(remainingArguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(remainingArguments[0]) {
	case azureRunsSubcommandNameConstant:
		return formatter.describeAzureEntityMessage(command, result, failure, stage, azurePipelineRunEntityLabelConstant, remainingArguments[1:])
	case azureVariableGroupSubcommandNameConstant:
		return formatter.describeAzureEntityMessage(command, result, failure, stage, azureVariableGroupEntityLabelConstant, remainingArguments[1:])
	default:
		return formatter.describeAzureEntityMessage(command, result, failure, stage, azurePipelineEntityLabelConstant, remainingArguments)
	}
}

func (formatter CommandMessageFormatter) describeAzureResourceGroupMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, remainingArguments []string) string {
	scopeLabel := formatter.argumentAfterFlag(command.Details.Arguments, azureSubscriptionFlagConstant)
	if len(scopeLabel) == 0 {
		scopeLabel = azureCurrentSubscriptionLabelConstant
	}
	return formatter.describeAzureOperationMessage(command, result, failure, stage, azureResourceGroupEntityLabelConstant, remainingArguments, scopeLabel)
}

func (formatter CommandMessageFormatter) describeAzureEntityMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, entityLabel string, remainingArguments []string) string {
	scopeLabel := formatter.argumentAfterFlag(command.Details.Arguments, azureProjectFlagConstant)
	if len(scopeLabel) == 0 {
		scopeLabel = azureCurrentProjectLabelConstant
	}
	return formatter.describeAzureOperationMessage(command, result, failure, stage, entityLabel, remainingArguments, scopeLabel)
}

func (formatter CommandMessageFormatter) describeAzureOperationMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, entityLabel string, remainingArguments []string, scopeLabel string) string {
	operation := emptyStringConstant
	if len(remainingArguments) > 0 {
		operation = strings.TrimSpace(remainingArguments[0])
	}

	entityIdentifier := formatter.argumentAfterFlag(command.Details.Arguments, azureNameFlagConstant)
	if len(entityIdentifier) == 0 {
		entityIdentifier = formatter.argumentAfterFlag(command.Details.Arguments, azureIdentifierFlagConstant)
	}
	if len(entityIdentifier) == 0 {
		entityIdentifier = formatter.argumentAfterFlag(command.Details.Arguments, azureGroupIdentifierFlagConstant)
	}
	entityIdentifier = formatter.ensureValue(entityIdentifier)

	switch operation {
	case azureListSubcommandNameConstant:
		pluralEntityLabel := pluralizeEntityLabel(entityLabel)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(azureListStartTemplateConstant, pluralEntityLabel, scopeLabel)
		case messageStageSuccess:
			return fmt.Sprintf(azureListSuccessTemplateConstant, pluralEntityLabel, scopeLabel)
		case messageStageFailure:
			return fmt.Sprintf(azureListFailureTemplateConstant, pluralEntityLabel, scopeLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(azureListExecutionFailureTemplateConstant, pluralEntityLabel, scopeLabel, formatter.describeFailure(failure))
		}
	case azureCreateSubcommandNameConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(azureCreateStartTemplateConstant, entityLabel, entityIdentifier, scopeLabel)
		case messageStageSuccess:
			return fmt.Sprintf(azureCreateSuccessTemplateConstant, entityLabel, entityIdentifier, scopeLabel)
		case messageStageFailure:
			return fmt.Sprintf(azureCreateFailureTemplateConstant, entityLabel, entityIdentifier, scopeLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(azureCreateExecutionFailureTemplate, entityLabel, entityIdentifier, scopeLabel, formatter.describeFailure(failure))
		}
	case azureDeleteSubcommandNameConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(azureDeleteStartTemplateConstant, entityLabel, entityIdentifier, scopeLabel)
		case messageStageSuccess:
			return fmt.Sprintf(azureDeleteSuccessTemplateConstant, entityLabel, entityIdentifier, scopeLabel)
		case messageStageFailure:
			return fmt.Sprintf(azureDeleteFailureTemplateConstant, entityLabel, entityIdentifier, scopeLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(azureDeleteExecutionFailureTemplate, entityLabel, entityIdentifier, scopeLabel, formatter.describeFailure(failure))
		}
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeAzureConfigureMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if !containsArgument(command.Details.Arguments, azureConfigureSubcommandNameConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch stage {
	case messageStageStart:
		return azureConfigureStartMessageConstant
	case messageStageSuccess:
		return azureConfigureSuccessMessageConstant
	case messageStageFailure:
		return fmt.Sprintf(azureConfigureFailureTemplateConstant, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(azureConfigureExecutionFailureTemplate, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeAzureExtensionMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return azureExtensionStartTemplateConstant
	case messageStageSuccess:
		return azureExtensionSuccessTemplateConstant
	case messageStageFailure:
		return fmt.Sprintf(azureExtensionFailureTemplateConstant, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(azureExtensionExecutionFailureTemplate, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)

	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	workingDirectorySuffix := emptyStringConstant
	if len(trimmedWorkingDirectory) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}

	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(candidate string) string {
	trimmedCandidate := strings.TrimSpace(candidate)
	if len(trimmedCandidate) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedCandidate
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[index])
}

func (formatter CommandMessageFormatter) argumentAfterFlag(arguments []string, flagName string) string {
	for argumentIndex, argumentValue := range arguments {
		if strings.TrimSpace(argumentValue) != flagName {
			continue
		}
		return formatter.argumentAtIndex(arguments, argumentIndex+1)
	}
	return emptyStringConstant
}

var entityLabelPluralMapping = map[string]string{
	azureRepositoryEntityLabelConstant:    "repositories",
	azurePipelineEntityLabelConstant:      "pipelines",
	azurePipelineRunEntityLabelConstant:   "pipeline runs",
	azureVariableGroupEntityLabelConstant: "variable groups",
	azureResourceGroupEntityLabelConstant: "resource groups",
}

func pluralizeEntityLabel(entityLabel string) string {
	pluralLabel, labelKnown := entityLabelPluralMapping[entityLabel]
	if labelKnown {
		return pluralLabel
	}
	return entityLabel
}

func containsArgument(arguments []string, candidate string) bool {
	for _, argumentValue := range arguments {
		if strings.TrimSpace(argumentValue) == candidate {
			return true
		}
	}
	return false
}
