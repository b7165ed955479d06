package kubernetes

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func (m *Manager) NamespacesList(ctx context.Context) (*corev1.NamespaceList, error) {
	return doRetry(ctx, m.retry, "namespaces list", func(ctx context.Context) (*corev1.NamespaceList, error) {
		return m.clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	})
}
