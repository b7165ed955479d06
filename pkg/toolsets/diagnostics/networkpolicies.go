package diagnostics

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/bdastur/k8s-debugger/pkg/api"
	"github.com/bdastur/k8s-debugger/pkg/kubernetes"
	"github.com/bdastur/k8s-debugger/pkg/output"
)

func initNetworkPolicies() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "networkpolicies_list",
			Description: "List the Kubernetes network policies in the current cluster with a plain-language explanation of which connections each policy allows and blocks",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"namespace": {
						Type:        "string",
						Description: "Optional Namespace to retrieve the network policies from. If not provided, will list network policies from all namespaces",
					},
				},
			},
			Annotations: api.ToolAnnotations{
				Title:           "NetworkPolicies: List",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: networkPoliciesList},
	}
}

func networkPoliciesList(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	namespace := optionalString(params, "namespace")

	policies, err := params.NetworkPoliciesList(params, namespace)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to list network policies: %w", err)), nil
	}
	if len(policies.Items) == 0 {
		return api.NewToolCallResult("# No network policies found, all traffic is unrestricted", nil), nil
	}

	summaries := make([]kubernetes.NetworkPolicySummary, 0, len(policies.Items))
	for i := range policies.Items {
		summaries = append(summaries, kubernetes.SummarizeNetworkPolicy(&policies.Items[i]))
	}
	yamlPolicies, err := output.MarshalYaml(summaries)
	if err != nil {
		err = fmt.Errorf("failed to list network policies: %w", err)
	}
	return api.NewToolCallResult(fmt.Sprintf("# The following network policies (YAML format) were found:\n%s", yamlPolicies), err), nil
}
