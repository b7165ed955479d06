package kubernetes

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func (m *Manager) NodesList(ctx context.Context) (*corev1.NodeList, error) {
	return doRetry(ctx, m.retry, "nodes list", func(ctx context.Context) (*corev1.NodeList, error) {
		return m.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	})
}

// NodeReady reports whether the node's Ready condition is true.
func NodeReady(node *corev1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady {
			return condition.Status == corev1.ConditionTrue
		}
	}
	return false
}
