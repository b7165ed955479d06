package kubernetes

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ErrDeadlineExceeded is returned when a tool call exceeds its execution budget.
// The in-flight API request is aborted through its context.
var ErrDeadlineExceeded = errors.New("tool call deadline exceeded")

// ErrorKind classifies a cluster failure for retry and reporting decisions.
type ErrorKind string

const (
	// PermissionDenied covers Forbidden and Unauthorized API responses.
	// Not retryable, RBAC or credentials need fixing.
	PermissionDenied ErrorKind = "permission_denied"
	// NotFound covers missing resources. Not retryable.
	NotFound ErrorKind = "not_found"
	// Transient covers timeouts, rate limiting, and 5xx responses. Retryable.
	Transient ErrorKind = "transient"
	// Internal covers everything else. Not retryable.
	Internal ErrorKind = "internal"
)

// ClusterError wraps a Kubernetes API failure with its classification and the
// operation that produced it. The upstream message is preserved through Unwrap.
type ClusterError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ClusterError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ClusterError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error is worth retrying.
func (e *ClusterError) IsRetryable() bool {
	return e.Kind == Transient
}

// ClassifyError wraps err in a ClusterError with the kind derived from the
// Kubernetes API error predicates. A nil err returns nil.
func ClassifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	var clusterErr *ClusterError
	if errors.As(err, &clusterErr) {
		return err
	}
	return &ClusterError{Kind: classify(err), Op: op, Err: err}
}

func classify(err error) ErrorKind {
	switch {
	case apierrors.IsForbidden(err), apierrors.IsUnauthorized(err):
		return PermissionDenied
	case apierrors.IsNotFound(err):
		return NotFound
	case apierrors.IsTimeout(err),
		apierrors.IsServerTimeout(err),
		apierrors.IsTooManyRequests(err),
		apierrors.IsServiceUnavailable(err),
		apierrors.IsInternalError(err),
		apierrors.IsUnexpectedServerError(err):
		return Transient
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.ECONNREFUSED):
		return Transient
	case errors.Is(err, context.DeadlineExceeded):
		return Transient
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Transient
	}
	return Internal
}

// IsTransient reports whether err classifies as a transient cluster failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var clusterErr *ClusterError
	if errors.As(err, &clusterErr) {
		return clusterErr.IsRetryable()
	}
	return classify(err) == Transient
}
