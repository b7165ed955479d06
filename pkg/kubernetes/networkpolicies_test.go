package kubernetes

import (
	"testing"

	"github.com/stretchr/testify/suite"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"
)

type NetworkPolicySuite struct {
	suite.Suite
}

func (s *NetworkPolicySuite) TestSummarizeSelectivePolicy() {
	tcp := corev1.ProtocolTCP
	policy := &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{Namespace: "prod", Name: "allow-web"},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{MatchLabels: map[string]string{"app": "web"}},
			Ingress: []networkingv1.NetworkPolicyIngressRule{{
				From: []networkingv1.NetworkPolicyPeer{
					{PodSelector: &metav1.LabelSelector{MatchLabels: map[string]string{"app": "frontend"}}},
					{NamespaceSelector: &metav1.LabelSelector{MatchLabels: map[string]string{"team": "web"}}},
				},
				Ports: []networkingv1.NetworkPolicyPort{
					{Protocol: &tcp, Port: ptr.To(intstr.FromInt32(443))},
				},
			}},
			Egress: []networkingv1.NetworkPolicyEgressRule{{
				To: []networkingv1.NetworkPolicyPeer{
					{IPBlock: &networkingv1.IPBlock{CIDR: "10.0.0.0/8"}},
				},
			}},
		},
	}

	summary := SummarizeNetworkPolicy(policy)
	s.Equal("allow-web", summary.Name)
	s.Equal("prod", summary.Namespace)
	s.Contains(summary.AppliedToPods, "app:web")
	s.Contains(summary.IngressAllowedFrom, "pods matching labels map[app:frontend]")
	s.Contains(summary.IngressAllowedFrom, "namespaces matching labels map[team:web]")
	s.Contains(summary.IngressAllowedPorts, "protocol TCP, port 443")
	s.Contains(summary.EgressAllowedTo, "IP block 10.0.0.0/8")
}

func (s *NetworkPolicySuite) TestSummarizeEmptySelectors() {
	policy := &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{Namespace: "prod", Name: "allow-all-in-ns"},
		Spec: networkingv1.NetworkPolicySpec{
			Ingress: []networkingv1.NetworkPolicyIngressRule{{
				From: []networkingv1.NetworkPolicyPeer{
					{PodSelector: &metav1.LabelSelector{}},
				},
			}},
		},
	}

	summary := SummarizeNetworkPolicy(policy)
	s.Equal("applies to all pods in the namespace", summary.AppliedToPods)
	s.Contains(summary.IngressAllowedFrom, "all pods within the namespace")
	s.Contains(summary.IngressAllowedPorts, "not restricted to any port")
	s.Equal([]string{"outbound connections are not restricted"}, summary.EgressAllowedTo)
}

func TestNetworkPolicies(t *testing.T) {
	suite.Run(t, new(NetworkPolicySuite))
}
