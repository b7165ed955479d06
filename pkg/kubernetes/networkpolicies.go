package kubernetes

import (
	"context"
	"fmt"

	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NetworkPoliciesList returns the network policies in the given namespace, or
// in all namespaces when namespace is empty.
func (m *Manager) NetworkPoliciesList(ctx context.Context, namespace string) (*networkingv1.NetworkPolicyList, error) {
	return doRetry(ctx, m.retry, "networkpolicies list", func(ctx context.Context) (*networkingv1.NetworkPolicyList, error) {
		return m.clientset.NetworkingV1().NetworkPolicies(namespace).List(ctx, metav1.ListOptions{})
	})
}

// NetworkPolicySummary is a plain-language rendering of a NetworkPolicy,
// spelling out which pods it selects and which connections it allows.
// Network policies are additive and their selector semantics are easy to
// misread, so the summary states the effect of each rule explicitly.
type NetworkPolicySummary struct {
	Name                string   `json:"name"`
	Namespace           string   `json:"namespace"`
	AppliedToPods       string   `json:"applied_to_pods"`
	IngressAllowedFrom  []string `json:"ingress_allowed_from"`
	IngressAllowedPorts []string `json:"ingress_allowed_ports"`
	EgressAllowedTo     []string `json:"egress_allowed_to"`
}

// SummarizeNetworkPolicy explains the ingress and egress effect of a policy.
func SummarizeNetworkPolicy(policy *networkingv1.NetworkPolicy) NetworkPolicySummary {
	summary := NetworkPolicySummary{
		Name:      policy.Name,
		Namespace: policy.Namespace,
	}

	if len(policy.Spec.PodSelector.MatchLabels) == 0 && len(policy.Spec.PodSelector.MatchExpressions) == 0 {
		summary.AppliedToPods = "applies to all pods in the namespace"
	} else {
		summary.AppliedToPods = fmt.Sprintf("applies to pods matching labels %v", policy.Spec.PodSelector.MatchLabels)
	}

	if hasPolicyType(policy, networkingv1.PolicyTypeIngress) || len(policy.Spec.Ingress) > 0 {
		if len(policy.Spec.Ingress) == 0 {
			summary.IngressAllowedFrom = []string{"no inbound connections are allowed"}
		}
		for _, rule := range policy.Spec.Ingress {
			if len(rule.From) == 0 {
				summary.IngressAllowedFrom = append(summary.IngressAllowedFrom, "connections allowed from all sources")
			}
			summary.IngressAllowedFrom = append(summary.IngressAllowedFrom, describePeers(rule.From)...)
			summary.IngressAllowedPorts = append(summary.IngressAllowedPorts, describePorts(rule.Ports)...)
		}
	}

	if hasPolicyType(policy, networkingv1.PolicyTypeEgress) || len(policy.Spec.Egress) > 0 {
		if len(policy.Spec.Egress) == 0 {
			summary.EgressAllowedTo = []string{"no outbound connections are allowed"}
		}
		for _, rule := range policy.Spec.Egress {
			if len(rule.To) == 0 {
				summary.EgressAllowedTo = append(summary.EgressAllowedTo, "connections allowed to all destinations")
			}
			summary.EgressAllowedTo = append(summary.EgressAllowedTo, describePeers(rule.To)...)
		}
	} else {
		summary.EgressAllowedTo = []string{"outbound connections are not restricted"}
	}

	return summary
}

func hasPolicyType(policy *networkingv1.NetworkPolicy, policyType networkingv1.PolicyType) bool {
	for _, t := range policy.Spec.PolicyTypes {
		if t == policyType {
			return true
		}
	}
	return false
}

func describePeers(peers []networkingv1.NetworkPolicyPeer) []string {
	descriptions := make([]string, 0, len(peers))
	for _, peer := range peers {
		if peer.PodSelector != nil {
			if len(peer.PodSelector.MatchLabels) == 0 && len(peer.PodSelector.MatchExpressions) == 0 {
				descriptions = append(descriptions, "all pods within the namespace")
			} else {
				descriptions = append(descriptions, fmt.Sprintf("pods matching labels %v", peer.PodSelector.MatchLabels))
			}
		}
		if peer.NamespaceSelector != nil {
			if len(peer.NamespaceSelector.MatchLabels) == 0 && len(peer.NamespaceSelector.MatchExpressions) == 0 {
				descriptions = append(descriptions, "all namespaces")
			} else {
				descriptions = append(descriptions, fmt.Sprintf("namespaces matching labels %v", peer.NamespaceSelector.MatchLabels))
			}
		}
		if peer.IPBlock != nil {
			descriptions = append(descriptions, fmt.Sprintf("IP block %s", peer.IPBlock.CIDR))
		}
	}
	return descriptions
}

func describePorts(ports []networkingv1.NetworkPolicyPort) []string {
	if len(ports) == 0 {
		return []string{"not restricted to any port"}
	}
	descriptions := make([]string, 0, len(ports))
	for _, port := range ports {
		protocol := "TCP"
		if port.Protocol != nil {
			protocol = string(*port.Protocol)
		}
		if port.Port != nil {
			descriptions = append(descriptions, fmt.Sprintf("protocol %s, port %s", protocol, port.Port.String()))
		} else {
			descriptions = append(descriptions, fmt.Sprintf("protocol %s, any port", protocol))
		}
	}
	return descriptions
}
