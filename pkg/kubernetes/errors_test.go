package kubernetes

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/suite"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

type ErrorsSuite struct {
	suite.Suite
}

func (s *ErrorsSuite) TestClassifyError() {
	gr := schema.GroupResource{Resource: "pods"}

	s.Run("nil error returns nil", func() {
		s.NoError(ClassifyError("pods list", nil))
	})
	s.Run("forbidden classifies as permission denied", func() {
		err := ClassifyError("pods list", apierrors.NewForbidden(gr, "nginx", errors.New("denied")))
		var clusterErr *ClusterError
		s.Require().ErrorAs(err, &clusterErr)
		s.Equal(PermissionDenied, clusterErr.Kind)
		s.False(clusterErr.IsRetryable())
	})
	s.Run("unauthorized classifies as permission denied", func() {
		err := ClassifyError("pods list", apierrors.NewUnauthorized("bad token"))
		var clusterErr *ClusterError
		s.Require().ErrorAs(err, &clusterErr)
		s.Equal(PermissionDenied, clusterErr.Kind)
	})
	s.Run("not found classifies as not found", func() {
		err := ClassifyError("pods get", apierrors.NewNotFound(gr, "nginx"))
		var clusterErr *ClusterError
		s.Require().ErrorAs(err, &clusterErr)
		s.Equal(NotFound, clusterErr.Kind)
	})
	s.Run("server timeout classifies as transient", func() {
		err := ClassifyError("pods list", apierrors.NewServerTimeout(gr, "list", 1))
		var clusterErr *ClusterError
		s.Require().ErrorAs(err, &clusterErr)
		s.Equal(Transient, clusterErr.Kind)
		s.True(clusterErr.IsRetryable())
	})
	s.Run("rate limiting classifies as transient", func() {
		s.True(IsTransient(apierrors.NewTooManyRequests("slow down", 1)))
	})
	s.Run("service unavailable classifies as transient", func() {
		s.True(IsTransient(apierrors.NewServiceUnavailable("down")))
	})
	s.Run("connection reset classifies as transient", func() {
		s.True(IsTransient(syscall.ECONNRESET))
	})
	s.Run("context deadline classifies as transient", func() {
		s.True(IsTransient(context.DeadlineExceeded))
	})
	s.Run("unknown error classifies as internal", func() {
		err := ClassifyError("pods list", errors.New("boom"))
		var clusterErr *ClusterError
		s.Require().ErrorAs(err, &clusterErr)
		s.Equal(Internal, clusterErr.Kind)
	})
	s.Run("already classified error is returned unchanged", func() {
		original := &ClusterError{Kind: NotFound, Op: "pods get", Err: errors.New("gone")}
		s.Equal(original, ClassifyError("other op", original))
	})
	s.Run("upstream message is preserved", func() {
		upstream := apierrors.NewForbidden(gr, "nginx", errors.New("denied"))
		err := ClassifyError("pods list", upstream)
		s.ErrorIs(err, upstream)
		s.Contains(err.Error(), "pods list")
	})
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrorsSuite))
}
