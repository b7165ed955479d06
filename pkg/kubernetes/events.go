package kubernetes

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// EventsList returns the events in the given namespace, or in all namespaces
// when namespace is empty.
func (m *Manager) EventsList(ctx context.Context, namespace string) ([]corev1.Event, error) {
	events, err := doRetry(ctx, m.retry, "events list", func(ctx context.Context) (*corev1.EventList, error) {
		return m.clientset.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{})
	})
	if err != nil {
		return nil, err
	}
	return events.Items, nil
}
