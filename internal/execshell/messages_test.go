package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/azops/internal/execshell"
)

const (
	testMessagesRepositoryDirectoryConstant = "/tmp/source"
	testMessagesProjectNameConstant         = "Widgets"
	testMessagesRepositoryNameConstant      = "widget-api"
	testMessagesCommitMessageConstant       = "Initial commit"
	testMessagesRemoteURLConstant           = "https://dev.azure.com/acme/Widgets/_git/widget-api"
)

func TestCommandMessageFormatterDescribesKnownCommands(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}

	testCases := []struct {
		name            string
		command         execshell.ShellCommand
		expectedStart   string
		expectedSuccess string
	}{
		{
			name: "git_init",
			command: execshell.ShellCommand{
				Name:    execshell.CommandGit,
				Details: execshell.CommandDetails{Arguments: []string{"init", "-b", "main"}, WorkingDirectory: testMessagesRepositoryDirectoryConstant},
			},
			expectedStart:   "Initializing repository in /tmp/source",
			expectedSuccess: "Initialized repository in /tmp/source",
		},
		{
			name: "git_remote_add",
			command: execshell.ShellCommand{
				Name:    execshell.CommandGit,
				Details: execshell.CommandDetails{Arguments: []string{"remote", "add", "origin", testMessagesRemoteURLConstant}, WorkingDirectory: testMessagesRepositoryDirectoryConstant},
			},
			expectedStart:   "Registering origin remote for /tmp/source as " + testMessagesRemoteURLConstant,
			expectedSuccess: "origin remote for /tmp/source now points to " + testMessagesRemoteURLConstant,
		},
		{
			name: "git_stage_all",
			command: execshell.ShellCommand{
				Name:    execshell.CommandGit,
				Details: execshell.CommandDetails{Arguments: []string{"add", "--all"}, WorkingDirectory: testMessagesRepositoryDirectoryConstant},
			},
			expectedStart:   "Staging all files in /tmp/source",
			expectedSuccess: "Staged all files in /tmp/source",
		},
		{
			name: "git_commit",
			command: execshell.ShellCommand{
				Name:    execshell.CommandGit,
				Details: execshell.CommandDetails{Arguments: []string{"commit", "-m", testMessagesCommitMessageConstant}, WorkingDirectory: testMessagesRepositoryDirectoryConstant},
			},
			expectedStart:   "Creating commit in /tmp/source with message \"Initial commit\"",
			expectedSuccess: "Created commit in /tmp/source with message \"Initial commit\"",
		},
		{
			name: "git_push_upstream",
			command: execshell.ShellCommand{
				Name:    execshell.CommandGit,
				Details: execshell.CommandDetails{Arguments: []string{"push", "--set-upstream", "origin", "main"}, WorkingDirectory: testMessagesRepositoryDirectoryConstant},
			},
			expectedStart:   "Pushing main to origin from /tmp/source",
			expectedSuccess: "Pushed main to origin from /tmp/source",
		},
		{
			name: "azure_repository_list",
			command: execshell.ShellCommand{
				Name:    execshell.CommandAzure,
				Details: execshell.CommandDetails{Arguments: []string{"repos", "list", "--project", testMessagesProjectNameConstant}},
			},
			expectedStart:   "Listing repositories in Widgets",
			expectedSuccess: "Listed repositories in Widgets",
		},
		{
			name: "azure_repository_create",
			command: execshell.ShellCommand{
				Name:    execshell.CommandAzure,
				Details: execshell.CommandDetails{Arguments: []string{"repos", "create", "--name", testMessagesRepositoryNameConstant, "--project", testMessagesProjectNameConstant}},
			},
			expectedStart:   "Creating repository widget-api in Widgets",
			expectedSuccess: "Created repository widget-api in Widgets",
		},
		{
			name: "azure_pipeline_delete",
			command: execshell.ShellCommand{
				Name:    execshell.CommandAzure,
				Details: execshell.CommandDetails{Arguments: []string{"pipelines", "delete", "--id", "42", "--project", testMessagesProjectNameConstant}},
			},
			expectedStart:   "Deleting pipeline 42 from Widgets",
			expectedSuccess: "Deleted pipeline 42 from Widgets",
		},
		{
			name: "azure_resource_group_delete",
			command: execshell.ShellCommand{
				Name:    execshell.CommandAzure,
				Details: execshell.CommandDetails{Arguments: []string{"group", "delete", "--name", "rg-demo", "--subscription", "sub-1", "--yes"}},
			},
			expectedStart:   "Deleting resource group rg-demo from sub-1",
			expectedSuccess: "Deleted resource group rg-demo from sub-1",
		},
		{
			name: "azure_devops_configure",
			command: execshell.ShellCommand{
				Name:    execshell.CommandAzure,
				Details: execshell.CommandDetails{Arguments: []string{"devops", "configure", "--defaults", "organization=https://dev.azure.com/acme/"}},
			},
			expectedStart:   "Configuring Azure DevOps defaults",
			expectedSuccess: "Configured Azure DevOps defaults",
		},
		{
			name: "generic_fallback",
			command: execshell.ShellCommand{
				Name:    execshell.CommandGit,
				Details: execshell.CommandDetails{Arguments: []string{"status"}},
			},
			expectedStart:   "Running git status",
			expectedSuccess: "Completed git status",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedStart, formatter.BuildStartedMessage(testCase.command))
			require.Equal(testInstance, testCase.expectedSuccess, formatter.BuildSuccessMessage(testCase.command))
		})
	}
}

func TestCommandMessageFormatterDescribesFailures(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}

	failingCommand := execshell.ShellCommand{
		Name:    execshell.CommandAzure,
		Details: execshell.CommandDetails{Arguments: []string{"repos", "create", "--name", testMessagesRepositoryNameConstant, "--project", testMessagesProjectNameConstant}},
	}

	failureMessage := formatter.BuildFailureMessage(failingCommand, execshell.ExecutionResult{ExitCode: 1, StandardError: "TF400813: not authorized"})
	require.Equal(testInstance, "Failed to create repository widget-api in Widgets (exit code 1: TF400813: not authorized)", failureMessage)

	executionFailureMessage := formatter.BuildExecutionFailureMessage(failingCommand, errors.New("az executable not found"))
	require.Equal(testInstance, "Unable to create repository widget-api in Widgets: az executable not found", executionFailureMessage)
}
