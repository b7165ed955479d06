package api

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
)

// PodListOptions contains options for listing pods.
type PodListOptions struct {
	// Namespace to list pods from. Empty means all namespaces.
	Namespace string
	// UnhealthyOnly restricts the result to pods that are not in a healthy
	// running or completed state.
	UnhealthyOnly bool
}

// KubernetesClient defines the interface for the read-only cluster operations
// that tool handlers need. It abstracts the concrete Kubernetes implementation
// to allow controlled access to the underlying resource APIs, better
// decoupling, and testability.
type KubernetesClient interface {
	// NamespaceOrDefault returns the provided namespace or the default configured namespace if empty
	NamespaceOrDefault(namespace string) string
	PodsList(ctx context.Context, options PodListOptions) (*corev1.PodList, error)
	PodsGet(ctx context.Context, namespace, name string) (*corev1.Pod, error)
	PodsTop(ctx context.Context, namespace string) (*metricsv1beta1.PodMetricsList, error)
	NodesList(ctx context.Context) (*corev1.NodeList, error)
	NodesTop(ctx context.Context) (*metricsv1beta1.NodeMetricsList, error)
	NamespacesList(ctx context.Context) (*corev1.NamespaceList, error)
	EventsList(ctx context.Context, namespace string) ([]corev1.Event, error)
	NetworkPoliciesList(ctx context.Context, namespace string) (*networkingv1.NetworkPolicyList, error)
}
