package kubernetes

import (
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/klog/v2"
	metricsclient "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/bdastur/k8s-debugger/pkg/api"
	"github.com/bdastur/k8s-debugger/pkg/config"
	"github.com/bdastur/k8s-debugger/pkg/version"
)

// Manager owns the shared cluster clients and the retry policy applied to all
// read operations. It is the only resource shared across MCP sessions,
// client-go clients are safe for concurrent use.
type Manager struct {
	clientset kubernetes.Interface
	metrics   metricsclient.Interface
	namespace string
	retry     RetryPolicy
}

var _ api.KubernetesClient = (*Manager)(nil)

// NewManager resolves the cluster configuration (explicit kubeconfig path,
// kubeconfig loading rules, or in-cluster config) and builds the shared clients.
func NewManager(cfg *config.StaticConfig) (*Manager, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if cfg.KubeConfig != "" {
		loadingRules.ExplicitPath = cfg.KubeConfig
	}
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, &clientcmd.ConfigOverrides{})

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		if inCluster, inClusterErr := rest.InClusterConfig(); inClusterErr == nil {
			klog.V(1).Info("Using in-cluster configuration")
			restConfig = inCluster
		} else {
			return nil, fmt.Errorf("failed to resolve cluster configuration: %w", err)
		}
	}
	restConfig.UserAgent = version.BinaryName + "/" + version.Version

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	metrics, err := metricsclient.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics client: %w", err)
	}

	namespace, _, err := clientConfig.Namespace()
	if err != nil || namespace == "" {
		namespace = "default"
	}

	return &Manager{
		clientset: clientset,
		metrics:   metrics,
		namespace: namespace,
		retry:     RetryPolicyFromConfig(cfg),
	}, nil
}

// NewManagerFromClients builds a Manager around pre-built clients.
// Intended for tests with fake clientsets.
func NewManagerFromClients(clientset kubernetes.Interface, metrics metricsclient.Interface, retry RetryPolicy) *Manager {
	return &Manager{
		clientset: clientset,
		metrics:   metrics,
		namespace: "default",
		retry:     retry,
	}
}

// NamespaceOrDefault returns the provided namespace or the default configured
// namespace if empty.
func (m *Manager) NamespaceOrDefault(namespace string) string {
	if namespace == "" {
		return m.namespace
	}
	return namespace
}
