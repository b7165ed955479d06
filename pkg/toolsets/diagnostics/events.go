package diagnostics

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/bdastur/k8s-debugger/pkg/api"
	"github.com/bdastur/k8s-debugger/pkg/output"
)

func initEvents() []api.ServerTool {
	return []api.ServerTool{
		{Tool: api.Tool{
			Name:        "events_list",
			Description: "List Kubernetes events (warnings, errors, state changes) for debugging and troubleshooting in the current cluster from all namespaces",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"namespace": {
						Type:        "string",
						Description: "Optional Namespace to retrieve the events from. If not provided, will list events from all namespaces",
					},
				},
			},
			Annotations: api.ToolAnnotations{
				Title:           "Events: List",
				ReadOnlyHint:    ptr.To(true),
				DestructiveHint: ptr.To(false),
				OpenWorldHint:   ptr.To(true),
			},
		}, Handler: eventsList},
	}
}

type eventSummary struct {
	Namespace string `json:"namespace"`
	Object    string `json:"object"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
	Count     int32  `json:"count,omitempty"`
}

func eventsList(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	namespace := optionalString(params, "namespace")

	events, err := params.EventsList(params, namespace)
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to list events: %w", err)), nil
	}
	if len(events) == 0 {
		return api.NewToolCallResult("# No events found", nil), nil
	}

	summaries := make([]eventSummary, 0, len(events))
	for _, event := range events {
		summaries = append(summaries, eventSummary{
			Namespace: event.Namespace,
			Object:    event.InvolvedObject.Kind + "/" + event.InvolvedObject.Name,
			Type:      event.Type,
			Reason:    event.Reason,
			Message:   event.Message,
			Count:     event.Count,
		})
	}
	yamlEvents, err := output.MarshalYaml(summaries)
	if err != nil {
		err = fmt.Errorf("failed to list events: %w", err)
	}
	return api.NewToolCallResult(fmt.Sprintf("# The following events (YAML format) were found:\n%s", yamlEvents), err), nil
}
