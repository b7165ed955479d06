package diagnostics

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/bdastur/k8s-debugger/pkg/api"
	"github.com/bdastur/k8s-debugger/pkg/kubernetes"
	"github.com/bdastur/k8s-debugger/pkg/output"
)

func initNodes() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "nodes_list",
			Description: "List all the Kubernetes nodes in the current cluster with their readiness, roles, capacity and versions",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Nodes: List",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: nodesList},
		{Tool: api.Tool{
			Name:        "nodes_top",
			Description: "Get CPU and memory resource utilization for Kubernetes nodes (requires the metrics API to be available in the cluster)",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Nodes: Top",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: nodesTop},
	}
}

type nodeSummary struct {
	Name           string            `json:"name"`
	Ready          bool              `json:"ready"`
	KubeletVersion string            `json:"kubelet_version"`
	Capacity       map[string]string `json:"capacity"`
	Conditions     map[string]string `json:"conditions"`
}

func nodesList(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	nodes, err := params.NodesList(params)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to list nodes: %w", err)), nil
	}
	if len(nodes.Items) == 0 {
		return api.NewToolCallResult("# No nodes found", nil), nil
	}

	summaries := make([]nodeSummary, 0, len(nodes.Items))
	for i := range nodes.Items {
		node := &nodes.Items[i]
		capacity := make(map[string]string, len(node.Status.Capacity))
		for name, quantity := range node.Status.Capacity {
			capacity[string(name)] = quantity.String()
		}
		conditions := make(map[string]string, len(node.Status.Conditions))
		for _, condition := range node.Status.Conditions {
			conditions[string(condition.Type)] = string(condition.Status)
		}
		summaries = append(summaries, nodeSummary{
			Name:           node.Name,
			Ready:          kubernetes.NodeReady(node),
			KubeletVersion: node.Status.NodeInfo.KubeletVersion,
			Capacity:       capacity,
			Conditions:     conditions,
		})
	}
	content, err := params.ListOutput.PrintObj(summaries)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to list nodes: %w", err)), nil
	}
	return api.NewToolCallResult(fmt.Sprintf("# The following nodes were found (%s format):\n%s", params.ListOutput.GetName(), content), nil), nil
}

func nodesTop(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	metrics, err := params.NodesTop(params)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to get node metrics: %w", err)), nil
	}
	if len(metrics.Items) == 0 {
		return api.NewToolCallResult("# No node metrics available, the metrics API may not be enabled in the cluster", nil), nil
	}
	yamlMetrics, err := output.MarshalYaml(metrics.Items)
	if err != nil {
		err = fmt.Errorf("failed to get node metrics: %w", err)
	}
	return api.NewToolCallResult(fmt.Sprintf("# Node resource utilization (YAML format):\n%s", yamlMetrics), err), nil
}
