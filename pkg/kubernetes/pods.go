package kubernetes

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/bdastur/k8s-debugger/pkg/api"
)

func (m *Manager) PodsList(ctx context.Context, options api.PodListOptions) (*corev1.PodList, error) {
	pods, err := doRetry(ctx, m.retry, "pods list", func(ctx context.Context) (*corev1.PodList, error) {
		return m.clientset.CoreV1().Pods(options.Namespace).List(ctx, metav1.ListOptions{})
	})
	if err != nil {
		return nil, err
	}
	if options.UnhealthyOnly {
		unhealthy := make([]corev1.Pod, 0)
		for _, pod := range pods.Items {
			if !IsPodHealthy(&pod) {
				unhealthy = append(unhealthy, pod)
			}
		}
		pods.Items = unhealthy
	}
	return pods, nil
}

func (m *Manager) PodsGet(ctx context.Context, namespace, name string) (*corev1.Pod, error) {
	return doRetry(ctx, m.retry, "pods get", func(ctx context.Context) (*corev1.Pod, error) {
		return m.clientset.CoreV1().Pods(m.NamespaceOrDefault(namespace)).Get(ctx, name, metav1.GetOptions{})
	})
}

// IsPodHealthy reports whether a pod is running or completed with all of its
// containers in a healthy state. Pods stuck in Pending, crash-looping
// containers, and image pull failures all count as unhealthy.
func IsPodHealthy(pod *corev1.Pod) bool {
	switch pod.Status.Phase {
	case corev1.PodSucceeded:
		return true
	case corev1.PodRunning:
	default:
		return false
	}
	for _, status := range pod.Status.ContainerStatuses {
		if status.Ready {
			continue
		}
		if status.State.Waiting != nil || status.State.Terminated != nil {
			return false
		}
	}
	return true
}

// PodStatusReason returns a short human-readable reason for a pod's current
// state, preferring container-level waiting reasons (CrashLoopBackOff,
// ImagePullBackOff) over the pod phase.
func PodStatusReason(pod *corev1.Pod) string {
	for _, status := range pod.Status.ContainerStatuses {
		if status.State.Waiting != nil && status.State.Waiting.Reason != "" {
			return status.State.Waiting.Reason
		}
		if status.State.Terminated != nil && status.State.Terminated.Reason != "" {
			return status.State.Terminated.Reason
		}
	}
	if pod.Status.Reason != "" {
		return pod.Status.Reason
	}
	return string(pod.Status.Phase)
}
