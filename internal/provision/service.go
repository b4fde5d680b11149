package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/azops/internal/azurecli"
	"github.com/temirov/azops/internal/gitrepo"
)

const (
	originRemoteNameConstant                 = "origin"
	skipMessageTemplateConstant              = "PROVISION-SKIP: repository %s already exists in %s\n"
	createMessageTemplateConstant            = "PROVISION-CREATE: repository %s created in %s\n"
	planCreateMessageTemplateConstant        = "PLAN-PROVISION: repository %s would be created in %s\n"
	planPushMessageTemplateConstant          = "PLAN-PROVISION: %s would be reinitialized and pushed to %s\n"
	doneMessageTemplateConstant              = "PROVISION-DONE: %s pushed to %s\n"
	azureClientMissingErrorMessageConstant   = "azure client not configured"
	gitManagerMissingErrorMessageConstant    = "git repository manager not configured"
	optionFieldErrorTemplateConstant         = "%s must be provided"
	stepFailureTemplateConstant              = "%s: %w"
	organizationOptionNameConstant           = "organization"
	projectOptionNameConstant                = "project"
	repositoryOptionNameConstant             = "repository"
	directoryOptionNameConstant              = "directory"
	branchOptionNameConstant                 = "branch"
	commitMessageOptionNameConstant          = "commit message"
	ensureExtensionStepNameConstant          = "ensure azure devops extension"
	configureDefaultsStepNameConstant        = "configure organization default"
	repositoryLookupStepNameConstant         = "repository lookup"
	repositoryCreationStepNameConstant       = "repository creation"
	remoteURLAssemblyStepNameConstant        = "remote url assembly"
	metadataRemovalStepNameConstant          = "repository metadata removal"
	repositoryInitializationStepNameConstant = "repository initialization"
	remoteRegistrationStepNameConstant       = "remote registration"
	stagingStepNameConstant                  = "staging"
	commitStepNameConstant                   = "commit"
	pushStepNameConstant                     = "push"
)

// AzureRepositoryClient captures the Azure DevOps operations the provisioner depends on.
type AzureRepositoryClient interface {
	EnsureDevOpsExtension(executionContext context.Context) error
	ConfigureDefaultOrganization(executionContext context.Context, organization string) error
	FindRepositoryByName(executionContext context.Context, project string, repositoryName string) (azurecli.Repository, bool, error)
	CreateRepository(executionContext context.Context, project string, repositoryName string) (azurecli.Repository, error)
}

// GitRepositoryManager captures the local git operations the provisioner depends on.
type GitRepositoryManager interface {
	RemoveRepositoryMetadata(executionContext context.Context, repositoryPath string) error
	InitializeRepository(executionContext context.Context, repositoryPath string, branchName string) error
	AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
	StageAll(executionContext context.Context, repositoryPath string) error
	CreateCommit(executionContext context.Context, repositoryPath string, commitMessage string) error
	PushUpstream(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
}

// Options configures a single provisioning run.
type Options struct {
	Organization   string
	Project        string
	RepositoryName string
	Directory      string
	BranchName     string
	CommitMessage  string
	DryRun         bool
}

// Dependencies captures collaborators required to provision repositories.
type Dependencies struct {
	AzureClient AzureRepositoryClient
	GitManager  GitRepositoryManager
	Output      io.Writer
}

// Service provisions Azure Repos repositories and publishes local content to them.
type Service struct {
	dependencies Dependencies
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.AzureClient == nil {
		return nil, errors.New(azureClientMissingErrorMessageConstant)
	}
	if dependencies.GitManager == nil {
		return nil, errors.New(gitManagerMissingErrorMessageConstant)
	}
	return &Service{dependencies: dependencies}, nil
}

// Execute runs the provisioning sequence. The remote repository is created only
// when absent; local history is always replaced by a single fresh commit that is
// pushed with upstream tracking. The first failing step aborts the run.
func (service *Service) Execute(executionContext context.Context, options Options) error {
	if validationError := validateOptions(options); validationError != nil {
		return validationError
	}

	if extensionError := service.dependencies.AzureClient.EnsureDevOpsExtension(executionContext); extensionError != nil {
		return fmt.Errorf(stepFailureTemplateConstant, ensureExtensionStepNameConstant, extensionError)
	}

	if configureError := service.dependencies.AzureClient.ConfigureDefaultOrganization(executionContext, options.Organization); configureError != nil {
		return fmt.Errorf(stepFailureTemplateConstant, configureDefaultsStepNameConstant, configureError)
	}

	_, repositoryExists, lookupError := service.dependencies.AzureClient.FindRepositoryByName(executionContext, options.Project, options.RepositoryName)
	if lookupError != nil {
		return fmt.Errorf(stepFailureTemplateConstant, repositoryLookupStepNameConstant, lookupError)
	}

	remoteURL, remoteURLError := gitrepo.BuildAzureRemoteURL(options.Organization, options.Project, options.RepositoryName)
	if remoteURLError != nil {
		return fmt.Errorf(stepFailureTemplateConstant, remoteURLAssemblyStepNameConstant, remoteURLError)
	}

	if repositoryExists {
		service.printfOutput(skipMessageTemplateConstant, options.RepositoryName, options.Project)
	}

	if options.DryRun {
		if !repositoryExists {
			service.printfOutput(planCreateMessageTemplateConstant, options.RepositoryName, options.Project)
		}
		service.printfOutput(planPushMessageTemplateConstant, options.Directory, remoteURL)
		return nil
	}

	if !repositoryExists {
		if _, creationError := service.dependencies.AzureClient.CreateRepository(executionContext, options.Project, options.RepositoryName); creationError != nil {
			return fmt.Errorf(stepFailureTemplateConstant, repositoryCreationStepNameConstant, creationError)
		}
		service.printfOutput(createMessageTemplateConstant, options.RepositoryName, options.Project)
	}

	if removalError := service.dependencies.GitManager.RemoveRepositoryMetadata(executionContext, options.Directory); removalError != nil {
		return fmt.Errorf(stepFailureTemplateConstant, metadataRemovalStepNameConstant, removalError)
	}

	if initializationError := service.dependencies.GitManager.InitializeRepository(executionContext, options.Directory, options.BranchName); initializationError != nil {
		return fmt.Errorf(stepFailureTemplateConstant, repositoryInitializationStepNameConstant, initializationError)
	}

	if remoteError := service.dependencies.GitManager.AddRemote(executionContext, options.Directory, originRemoteNameConstant, remoteURL); remoteError != nil {
		return fmt.Errorf(stepFailureTemplateConstant, remoteRegistrationStepNameConstant, remoteError)
	}

	if stagingError := service.dependencies.GitManager.StageAll(executionContext, options.Directory); stagingError != nil {
		return fmt.Errorf(stepFailureTemplateConstant, stagingStepNameConstant, stagingError)
	}

	if commitError := service.dependencies.GitManager.CreateCommit(executionContext, options.Directory, options.CommitMessage); commitError != nil {
		return fmt.Errorf(stepFailureTemplateConstant, commitStepNameConstant, commitError)
	}

	if pushError := service.dependencies.GitManager.PushUpstream(executionContext, options.Directory, originRemoteNameConstant, options.BranchName); pushError != nil {
		return fmt.Errorf(stepFailureTemplateConstant, pushStepNameConstant, pushError)
	}

	service.printfOutput(doneMessageTemplateConstant, options.Directory, remoteURL)
	return nil
}

func validateOptions(options Options) error {
	requiredOptionValues := []struct {
		name  string
		value string
	}{
		{name: organizationOptionNameConstant, value: options.Organization},
		{name: projectOptionNameConstant, value: options.Project},
		{name: repositoryOptionNameConstant, value: options.RepositoryName},
		{name: directoryOptionNameConstant, value: options.Directory},
		{name: branchOptionNameConstant, value: options.BranchName},
		{name: commitMessageOptionNameConstant, value: options.CommitMessage},
	}

	for _, requiredOption := range requiredOptionValues {
		if len(strings.TrimSpace(requiredOption.value)) == 0 {
			return fmt.Errorf(optionFieldErrorTemplateConstant, requiredOption.name)
		}
	}
	return nil
}

func (service *Service) printfOutput(format string, arguments ...any) {
	if service.dependencies.Output == nil {
		return
	}
	fmt.Fprintf(service.dependencies.Output, format, arguments...)
}
