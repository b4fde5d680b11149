// Package azurecli provides a typed client over the Azure CLI. It covers the
// DevOps extension bootstrap, Azure Repos, Azure Pipelines, library variable
// groups, and resource group operations used by azops commands.
package azurecli
