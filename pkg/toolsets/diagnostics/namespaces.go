package diagnostics

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/bdastur/k8s-debugger/pkg/api"
)

func initNamespaces() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "namespaces_list",
			Description: "List all the Kubernetes namespaces in the current cluster with their phase and pod counts",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Namespaces: List",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: namespacesList},
	}
}

type namespaceSummary struct {
	Name     string `json:"name"`
	Phase    string `json:"phase"`
	PodCount int    `json:"pod_count"`
}

func namespacesList(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	namespaces, err := params.NamespacesList(params)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to list namespaces: %w", err)), nil
	}
	pods, err := params.PodsList(params, api.PodListOptions{})
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to count pods per namespace: %w", err)), nil
	}
	countByNamespace := make(map[string]int)
	for _, pod := range pods.Items {
		countByNamespace[pod.Namespace]++
	}

	summaries := make([]namespaceSummary, 0, len(namespaces.Items))
	for _, namespace := range namespaces.Items {
		summaries = append(summaries, namespaceSummary{
			Name:     namespace.Name,
			Phase:    string(namespace.Status.Phase),
			PodCount: countByNamespace[namespace.Name],
		})
	}
	content, err := params.ListOutput.PrintObj(summaries)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to list namespaces: %w", err)), nil
	}
	return api.NewToolCallResult(fmt.Sprintf("# The following namespaces were found (%s format):\n%s", params.ListOutput.GetName(), content), nil), nil
}
