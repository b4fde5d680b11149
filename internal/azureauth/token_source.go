package azureauth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	patSourceSeparatorConstant                 = ":"
	environmentPATSourceTypeValueConstant      = "env"
	filePATSourceTypeValueConstant             = "file"
	patSourceMissingErrorMessageConstant       = "personal access token source must be provided"
	environmentNameMissingErrorMessageConstant = "environment variable name must be provided"
	filePathMissingErrorMessageConstant        = "token file path must be provided"
	environmentLookupNilErrorMessageConstant   = "environment lookup function not configured"
	fileReaderNilErrorMessageConstant          = "file reader function not configured"
	environmentPATMissingTemplateConstant      = "environment variable %s is not set"
	fileReadErrorTemplateConstant              = "unable to read token file %s: %w"
	filePATEmptyErrorTemplateConstant          = "token file %s is empty"
	unsupportedPATSourceTemplateConstant       = "unsupported token source type %q"
)

// PATSourceType enumerates the supported personal access token retrieval mechanisms.
type PATSourceType string

// Personal access token source type enumerations.
const (
	PATSourceTypeEnvironment PATSourceType = PATSourceType(environmentPATSourceTypeValueConstant)
	PATSourceTypeFile        PATSourceType = PATSourceType(filePATSourceTypeValueConstant)
)

// PATSourceConfiguration specifies how to locate an Azure DevOps personal access token.
type PATSourceConfiguration struct {
	Type      PATSourceType
	Reference string
}

// PATResolver retrieves personal access tokens from configured sources.
type PATResolver interface {
	ResolvePersonalAccessToken(resolutionContext context.Context, source PATSourceConfiguration) (string, error)
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// NewPATResolver creates a token resolver with optional dependency overrides.
func NewPATResolver(environmentLookup EnvironmentLookup, fileReader FileReader) PATResolver {
	resolvedEnvironmentLookup := environmentLookup
	if resolvedEnvironmentLookup == nil {
		resolvedEnvironmentLookup = os.LookupEnv
	}

	resolvedFileReader := fileReader
	if resolvedFileReader == nil {
		resolvedFileReader = os.ReadFile
	}

	return &patResolver{
		environmentLookup: resolvedEnvironmentLookup,
		fileReader:        resolvedFileReader,
	}
}

// ParsePATSource interprets textual token source declarations such as
// env:AZURE_DEVOPS_EXT_PAT or file:/secrets/pat. Bare values are treated as
// environment variable names.
func ParsePATSource(sourceValue string) (PATSourceConfiguration, error) {
	trimmedValue := strings.TrimSpace(sourceValue)
	if len(trimmedValue) == 0 {
		return PATSourceConfiguration{}, errors.New(patSourceMissingErrorMessageConstant)
	}

	components := strings.SplitN(trimmedValue, patSourceSeparatorConstant, 2)
	if len(components) == 1 {
		return PATSourceConfiguration{
			Type:      PATSourceTypeEnvironment,
			Reference: trimmedValue,
		}, nil
	}

	sourceType := strings.ToLower(strings.TrimSpace(components[0]))
	reference := strings.TrimSpace(components[1])

	switch sourceType {
	case environmentPATSourceTypeValueConstant:
		if len(reference) == 0 {
			return PATSourceConfiguration{}, errors.New(environmentNameMissingErrorMessageConstant)
		}
		return PATSourceConfiguration{Type: PATSourceTypeEnvironment, Reference: reference}, nil
	case filePATSourceTypeValueConstant:
		if len(reference) == 0 {
			return PATSourceConfiguration{}, errors.New(filePathMissingErrorMessageConstant)
		}
		return PATSourceConfiguration{Type: PATSourceTypeFile, Reference: reference}, nil
	default:
		return PATSourceConfiguration{}, fmt.Errorf(unsupportedPATSourceTemplateConstant, sourceType)
	}
}

type patResolver struct {
	environmentLookup EnvironmentLookup
	fileReader        FileReader
}

func (resolver *patResolver) ResolvePersonalAccessToken(resolutionContext context.Context, source PATSourceConfiguration) (string, error) {
	_ = resolutionContext
	switch source.Type {
	case PATSourceTypeEnvironment:
		if resolver.environmentLookup == nil {
			return "", errors.New(environmentLookupNilErrorMessageConstant)
		}
		value, found := resolver.environmentLookup(source.Reference)
		if !found {
			return "", fmt.Errorf(environmentPATMissingTemplateConstant, source.Reference)
		}
		trimmedValue := strings.TrimSpace(value)
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(environmentPATMissingTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	case PATSourceTypeFile:
		if resolver.fileReader == nil {
			return "", errors.New(fileReaderNilErrorMessageConstant)
		}
		contents, readError := resolver.fileReader(source.Reference)
		if readError != nil {
			return "", fmt.Errorf(fileReadErrorTemplateConstant, source.Reference, readError)
		}
		trimmedValue := strings.TrimSpace(string(contents))
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(filePATEmptyErrorTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	default:
		return "", fmt.Errorf(unsupportedPATSourceTemplateConstant, source.Type)
	}
}
