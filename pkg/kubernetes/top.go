package kubernetes

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
)

// PodsTop returns resource utilization metrics for pods in the given
// namespace, or in all namespaces when namespace is empty. Requires the
// metrics API (metrics-server) to be available in the cluster.
func (m *Manager) PodsTop(ctx context.Context, namespace string) (*metricsv1beta1.PodMetricsList, error) {
	return doRetry(ctx, m.retry, "pods top", func(ctx context.Context) (*metricsv1beta1.PodMetricsList, error) {
		return m.metrics.MetricsV1beta1().PodMetricses(namespace).List(ctx, metav1.ListOptions{})
	})
}

// NodesTop returns resource utilization metrics for all nodes.
func (m *Manager) NodesTop(ctx context.Context) (*metricsv1beta1.NodeMetricsList, error) {
	return doRetry(ctx, m.retry, "nodes top", func(ctx context.Context) (*metricsv1beta1.NodeMetricsList, error) {
		return m.metrics.MetricsV1beta1().NodeMetricses().List(ctx, metav1.ListOptions{})
	})
}
