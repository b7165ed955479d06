package kubernetes

import (
	"testing"

	"github.com/stretchr/testify/suite"
	corev1 "k8s.io/api/core/v1"
)

type PodsSuite struct {
	suite.Suite
}

func waiting(reason string) corev1.ContainerStatus {
	return corev1.ContainerStatus{State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: reason}}}
}

func (s *PodsSuite) TestIsPodHealthy() {
	s.Run("running pod with ready containers is healthy", func() {
		p := pod("ns", "p", corev1.PodRunning, corev1.ContainerStatus{Ready: true})
		s.True(IsPodHealthy(p))
	})
	s.Run("succeeded pod is healthy", func() {
		s.True(IsPodHealthy(pod("ns", "p", corev1.PodSucceeded)))
	})
	s.Run("pending pod is unhealthy", func() {
		s.False(IsPodHealthy(pod("ns", "p", corev1.PodPending)))
	})
	s.Run("failed pod is unhealthy", func() {
		s.False(IsPodHealthy(pod("ns", "p", corev1.PodFailed)))
	})
	s.Run("crash-looping container is unhealthy", func() {
		s.False(IsPodHealthy(pod("ns", "p", corev1.PodRunning, waiting("CrashLoopBackOff"))))
	})
}

func (s *PodsSuite) TestPodStatusReason() {
	s.Run("container waiting reason wins", func() {
		p := pod("ns", "p", corev1.PodPending, waiting("ImagePullBackOff"))
		s.Equal("ImagePullBackOff", PodStatusReason(p))
	})
	s.Run("terminated reason is used", func() {
		p := pod("ns", "p", corev1.PodFailed, corev1.ContainerStatus{
			State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{Reason: "OOMKilled"}},
		})
		s.Equal("OOMKilled", PodStatusReason(p))
	})
	s.Run("falls back to phase", func() {
		s.Equal("Running", PodStatusReason(pod("ns", "p", corev1.PodRunning)))
	})
}

func TestPods(t *testing.T) {
	suite.Run(t, new(PodsSuite))
}
