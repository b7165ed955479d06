package diagnostics

import (
	"slices"

	"github.com/bdastur/k8s-debugger/pkg/api"
	"github.com/bdastur/k8s-debugger/pkg/toolsets"
)

type Toolset struct{}

var _ api.Toolset = (*Toolset)(nil)

func (t *Toolset) GetName() string {
	return "diagnostics"
}

func (t *Toolset) GetDescription() string {
	return "Read-only tools for diagnosing cluster state (Pods, Nodes, Namespaces, Events, Network Policies, resource utilization)"
}

func (t *Toolset) GetTools() []api.ServerTool {
	return slices.Concat(
		initPods(),
		initNodes(),
		initNamespaces(),
		initEvents(),
		initNetworkPolicies(),
	)
}

func init() {
	toolsets.Register(&Toolset{})
}
