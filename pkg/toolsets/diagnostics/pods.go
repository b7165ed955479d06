package diagnostics

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/bdastur/k8s-debugger/pkg/api"
	"github.com/bdastur/k8s-debugger/pkg/kubernetes"
	"github.com/bdastur/k8s-debugger/pkg/output"
)

func initPods() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "pods_list",
			Description: "List all the Kubernetes pods in the current cluster from all namespaces with their status, restart counts and node placement",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"namespace": {
						Type:        "string",
						Description: "Optional Namespace to retrieve the pods from. If not provided, will list pods from all namespaces",
					},
					"status_filter": {
						Type:        "string",
						Enum:        []any{"all", "unhealthy"},
						Description: "Optional filter. Use 'unhealthy' to only list pods that are pending, failed, or crash-looping",
					},
				},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Pods: List",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: podsList},
		{Tool: api.Tool{
			Name:        "pods_get",
			Description: "Get the full specification and status of a Kubernetes pod in the current cluster by name and namespace",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"name": {
						Type:        "string",
						Description: "Name of the pod",
					},
					"namespace": {
						Type:        "string",
						Description: "Optional Namespace of the pod. Defaults to the configured namespace",
					},
				},
				Required: []string{"name"},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Pods: Get",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: podsGet},
		{Tool: api.Tool{
			Name:        "pods_top",
			Description: "Get CPU and memory resource utilization for Kubernetes pods (requires the metrics API to be available in the cluster)",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"namespace": {
						Type:        "string",
						Description: "Optional Namespace to retrieve pod metrics from. If not provided, will include pods from all namespaces",
					},
				},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Pods: Top",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: podsTop},
	}
}

type podSummary struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Phase     string `json:"phase"`
	Reason    string `json:"reason,omitempty"`
	Restarts  int32  `json:"restarts"`
	Node      string `json:"node,omitempty"`
}

func podsList(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	namespace := optionalString(params, "namespace")
	statusFilter := optionalString(params, "status_filter")

	pods, err := params.PodsList(params, api.PodListOptions{
		Namespace:     namespace,
		UnhealthyOnly: statusFilter == "unhealthy",
	})
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to list pods: %w", err)), nil
	}
	if len(pods.Items) == 0 {
		return api.NewToolCallResult("# No pods found", nil), nil
	}

	summaries := make([]podSummary, 0, len(pods.Items))
	for i := range pods.Items {
		pod := &pods.Items[i]
		var restarts int32
		for _, status := range pod.Status.ContainerStatuses {
			restarts += status.RestartCount
		}
		summaries = append(summaries, podSummary{
			Name:      pod.Name,
			Namespace: pod.Namespace,
			Phase:     string(pod.Status.Phase),
			Reason:    kubernetes.PodStatusReason(pod),
			Restarts:  restarts,
			Node:      pod.Spec.NodeName,
		})
	}
	content, err := params.ListOutput.PrintObj(summaries)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to list pods: %w", err)), nil
	}
	return api.NewToolCallResult(fmt.Sprintf("# The following pods were found (%s format):\n%s", params.ListOutput.GetName(), content), nil), nil
}

func podsGet(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	name, _ := params.GetArguments()["name"].(string)
	namespace := optionalString(params, "namespace")

	pod, err := params.PodsGet(params, namespace, name)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to get pod %s in namespace %s: %w", name, params.NamespaceOrDefault(namespace), err)), nil
	}
	yamlPod, err := output.MarshalYaml(pod)
	if err != nil {
		err = fmt.Errorf("failed to get pod %s: %w", name, err)
	}
	return api.NewToolCallResult(yamlPod, err), nil
}

func podsTop(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	namespace := optionalString(params, "namespace")

	metrics, err := params.PodsTop(params, namespace)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to get pod metrics: %w", err)), nil
	}
	if len(metrics.Items) == 0 {
		return api.NewToolCallResult("# No pod metrics available, the metrics API may not be enabled in the cluster", nil), nil
	}
	yamlMetrics, err := output.MarshalYaml(metrics.Items)
	if err != nil {
		err = fmt.Errorf("failed to get pod metrics: %w", err)
	}
	return api.NewToolCallResult(fmt.Sprintf("# Pod resource utilization (YAML format):\n%s", yamlMetrics), err), nil
}

func optionalString(params api.ToolHandlerParams, key string) string {
	value, _ := params.GetArguments()[key].(string)
	return value
}
