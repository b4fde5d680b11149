package gitrepo

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/azops/internal/execshell"
)

const (
	gitMetadataDirectoryNameConstant       = ".git"
	initSubcommandConstant                 = "init"
	initialBranchFlagConstant              = "-b"
	remoteSubcommandConstant               = "remote"
	remoteAddSubcommandConstant            = "add"
	addSubcommandConstant                  = "add"
	stageAllFlagConstant                   = "--all"
	commitSubcommandConstant               = "commit"
	commitMessageFlagConstant              = "-m"
	allowEmptyCommitFlagConstant           = "--allow-empty"
	pushSubcommandConstant                 = "push"
	setUpstreamFlagConstant                = "--set-upstream"
	gitConfigCountEnvironmentNameConstant  = "GIT_CONFIG_COUNT"
	gitConfigKeyEnvironmentNameConstant    = "GIT_CONFIG_KEY_0"
	gitConfigValueEnvironmentNameConstant  = "GIT_CONFIG_VALUE_0"
	gitConfigSingleEntryCountValueConstant = "1"
	httpExtraHeaderConfigKeyConstant       = "http.extraheader"
	authorizationHeaderTemplateConstant    = "AUTHORIZATION: Basic %s"
	basicCredentialTemplateConstant        = ":%s"
	executorNotConfiguredMessageConstant   = "git executor not configured"
	directoryFieldNameConstant             = "directory"
	branchFieldNameConstant                = "branch"
	remoteNameFieldNameConstant            = "remote name"
	remoteURLFieldNameConstant             = "remote url"
	commitMessageFieldNameConstant         = "commit message"
	requiredValueMessageConstant           = "value required"
	inputValidationErrorTemplateConstant   = "%s: %s"
	gitOperationErrorTemplateConstant      = "%s failed: %s"
	removeMetadataOperationNameConstant    = GitOperationName("remove repository metadata")
	initializeRepositoryOperationConstant  = GitOperationName("initialize repository")
	addRemoteOperationNameConstant         = GitOperationName("register remote")
	stageAllOperationNameConstant          = GitOperationName("stage files")
	createCommitOperationNameConstant      = GitOperationName("create commit")
	pushUpstreamOperationNameConstant      = GitOperationName("push upstream")
)

// GitOperationName identifies a repository manager operation for error reporting.
type GitOperationName string

// GitExecutor is the minimal interface required from execshell.ShellExecutor.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// InputValidationError indicates a repository manager method received an unusable argument.
type InputValidationError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (validationError InputValidationError) Error() string {
	return fmt.Sprintf(inputValidationErrorTemplateConstant, validationError.FieldName, validationError.Message)
}

// GitOperationError wraps failures of individual git workflows.
type GitOperationError struct {
	Operation GitOperationName
	Cause     error
}

// Error describes the failed operation.
func (operationError GitOperationError) Error() string {
	return fmt.Sprintf(gitOperationErrorTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError GitOperationError) Unwrap() error {
	return operationError.Cause
}

// RepositoryManager coordinates local git operations through execshell.
type RepositoryManager struct {
	executor                GitExecutor
	pushAuthorizationHeader string
}

// NewRepositoryManager constructs a RepositoryManager bound to the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, fmt.Errorf(executorNotConfiguredMessageConstant)
	}
	return &RepositoryManager{executor: executor}, nil
}

// RemoveRepositoryMetadata deletes the .git directory beneath the provided path, discarding history.
func (manager *RepositoryManager) RemoveRepositoryMetadata(_ context.Context, repositoryPath string) error {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return InputValidationError{FieldName: directoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	metadataPath := filepath.Join(trimmedPath, gitMetadataDirectoryNameConstant)
	if removalError := os.RemoveAll(metadataPath); removalError != nil {
		return GitOperationError{Operation: removeMetadataOperationNameConstant, Cause: removalError}
	}
	return nil
}

// InitializeRepository creates a fresh repository rooted at the provided path with the given initial branch.
func (manager *RepositoryManager) InitializeRepository(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return InputValidationError{FieldName: directoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return InputValidationError{FieldName: branchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{initSubcommandConstant, initialBranchFlagConstant, trimmedBranch},
		WorkingDirectory: trimmedPath,
	})
	if executionError != nil {
		return GitOperationError{Operation: initializeRepositoryOperationConstant, Cause: executionError}
	}
	return nil
}

// AddRemote registers a named remote pointing at the provided URL.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		return InputValidationError{FieldName: remoteNameFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedRemoteURL := strings.TrimSpace(remoteURL)
	if len(trimmedRemoteURL) == 0 {
		return InputValidationError{FieldName: remoteURLFieldNameConstant, Message: requiredValueMessageConstant}
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{remoteSubcommandConstant, remoteAddSubcommandConstant, trimmedRemoteName, trimmedRemoteURL},
		WorkingDirectory: strings.TrimSpace(repositoryPath),
	})
	if executionError != nil {
		return GitOperationError{Operation: addRemoteOperationNameConstant, Cause: executionError}
	}
	return nil
}

// StageAll stages every tracked and untracked change beneath the repository root.
func (manager *RepositoryManager) StageAll(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{addSubcommandConstant, stageAllFlagConstant},
		WorkingDirectory: strings.TrimSpace(repositoryPath),
	})
	if executionError != nil {
		return GitOperationError{Operation: stageAllOperationNameConstant, Cause: executionError}
	}
	return nil
}

// CreateCommit records a single commit carrying the provided message. Empty
// directories produce an empty commit so the subsequent push still succeeds.
func (manager *RepositoryManager) CreateCommit(executionContext context.Context, repositoryPath string, commitMessage string) error {
	trimmedMessage := strings.TrimSpace(commitMessage)
	if len(trimmedMessage) == 0 {
		return InputValidationError{FieldName: commitMessageFieldNameConstant, Message: requiredValueMessageConstant}
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{commitSubcommandConstant, commitMessageFlagConstant, trimmedMessage, allowEmptyCommitFlagConstant},
		WorkingDirectory: strings.TrimSpace(repositoryPath),
	})
	if executionError != nil {
		return GitOperationError{Operation: createCommitOperationNameConstant, Cause: executionError}
	}
	return nil
}

// SetPushCredential derives an HTTP authorization header from the personal
// access token and attaches it to push invocations through GIT_CONFIG
// environment variables, keeping the token out of command arguments. An empty
// token clears the credential so pushes fall back to ambient git auth.
func (manager *RepositoryManager) SetPushCredential(personalAccessToken string) {
	trimmedToken := strings.TrimSpace(personalAccessToken)
	if len(trimmedToken) == 0 {
		manager.pushAuthorizationHeader = ""
		return
	}
	encodedCredential := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf(basicCredentialTemplateConstant, trimmedToken)))
	manager.pushAuthorizationHeader = fmt.Sprintf(authorizationHeaderTemplateConstant, encodedCredential)
}

// PushUpstream publishes the branch to the named remote and records it as the upstream.
func (manager *RepositoryManager) PushUpstream(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		return InputValidationError{FieldName: remoteNameFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return InputValidationError{FieldName: branchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        []string{pushSubcommandConstant, setUpstreamFlagConstant, trimmedRemoteName, trimmedBranch},
		WorkingDirectory: strings.TrimSpace(repositoryPath),
	}
	if len(manager.pushAuthorizationHeader) > 0 {
		commandDetails.EnvironmentVariables = map[string]string{
			gitConfigCountEnvironmentNameConstant: gitConfigSingleEntryCountValueConstant,
			gitConfigKeyEnvironmentNameConstant:   httpExtraHeaderConfigKeyConstant,
			gitConfigValueEnvironmentNameConstant: manager.pushAuthorizationHeader,
		}
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return GitOperationError{Operation: pushUpstreamOperationNameConstant, Cause: executionError}
	}
	return nil
}
