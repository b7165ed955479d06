package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"k8s.io/klog/v2"

	"github.com/bdastur/k8s-debugger/pkg/api"
	"github.com/bdastur/k8s-debugger/pkg/kubernetes"
	"github.com/bdastur/k8s-debugger/pkg/output"
)

// ErrDuplicateCall is returned when a call ID is reused within a session.
// Call IDs identify results back to the caller, reuse would make correlation
// ambiguous, so the duplicate call fails fast without executing.
var ErrDuplicateCall = errors.New("duplicate tool call id")

// CallState tracks a tool call through its lifecycle. Transitions are one-way:
// issued → executing → completed | failed | cancelled.
type CallState string

const (
	CallIssued    CallState = "issued"
	CallExecuting CallState = "executing"
	CallCompleted CallState = "completed"
	CallFailed    CallState = "failed"
	CallCancelled CallState = "cancelled"
)

// CallRequest is a single tool invocation as received from a client.
type CallRequest struct {
	ID        string
	Tool      string
	Arguments map[string]any
	IssuedAt  time.Time
}

var _ api.ToolCallRequest = (*CallRequest)(nil)

func (r *CallRequest) GetCallID() string            { return r.ID }
func (r *CallRequest) GetArguments() map[string]any { return r.Arguments }

type call struct {
	id          string
	tool        string
	state       CallState
	cancel      context.CancelFunc
	issuedAt    time.Time
	completedAt time.Time
}

// Session owns the call table for one client connection. Calls from the same
// session may execute concurrently, the table enforces that each call ID is
// used at most once.
type Session struct {
	id string

	mu     sync.Mutex
	calls  map[string]*call
	closed bool
}

func newSession(id string) *Session {
	return &Session{id: id, calls: make(map[string]*call)}
}

func (s *Session) ID() string {
	return s.id
}

// begin records a new call in the issued state. Any previous use of the call
// ID within the session, in-flight or finished, is a protocol violation.
func (s *Session) begin(request *CallRequest, cancel context.CancelFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("session %s is closed", s.id)
	}
	if existing, ok := s.calls[request.ID]; ok {
		return fmt.Errorf("%w: %s (state %s)", ErrDuplicateCall, request.ID, existing.state)
	}
	s.calls[request.ID] = &call{
		id:       request.ID,
		tool:     request.Tool,
		state:    CallIssued,
		cancel:   cancel,
		issuedAt: request.IssuedAt,
	}
	return nil
}

func (s *Session) transition(callID string, state CallState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[callID]
	if !ok {
		return
	}
	switch c.state {
	case CallCompleted, CallFailed, CallCancelled:
		// terminal, one-way
		return
	}
	c.state = state
	switch state {
	case CallCompleted, CallFailed, CallCancelled:
		c.completedAt = time.Now()
		c.cancel = nil
	}
}

// CallState returns the recorded state for a call ID.
func (s *Session) CallState(callID string) (CallState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[callID]
	if !ok {
		return "", false
	}
	return c.state, true
}

// Close cancels all in-flight calls and marks the session unusable.
// Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, c := range s.calls {
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
			c.state = CallCancelled
			c.completedAt = time.Now()
		}
	}
}

// SessionManager dispatches tool calls, keeping one Session per client
// connection. The registry and the cluster client are the only shared state,
// sessions never observe each other.
type SessionManager struct {
	registry    *Registry
	k8s         api.KubernetesClient
	listOutput  output.Output
	callTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(registry *Registry, k8s api.KubernetesClient, listOutput output.Output, callTimeout time.Duration) *SessionManager {
	return &SessionManager{
		registry:    registry,
		k8s:         k8s,
		listOutput:  listOutput,
		callTimeout: callTimeout,
		sessions:    make(map[string]*Session),
	}
}

// Session returns the session for the given ID, creating it on first use.
func (m *SessionManager) Session(sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		session = newSession(sessionID)
		m.sessions[sessionID] = session
		klog.V(1).Infof("session %s created", sessionID)
	}
	return session
}

// CloseSession destroys the session and cancels its in-flight calls.
func (m *SessionManager) CloseSession(sessionID string) {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	if ok {
		session.Close()
		klog.V(1).Infof("session %s closed", sessionID)
	}
}

// CloseAll closes every session. Idempotent.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, session := range sessions {
		session.Close()
	}
}

// Dispatch validates and executes a single tool call on behalf of a session.
//
// Failures split into two kinds: protocol violations (unknown tool, invalid
// arguments, duplicate call ID) are returned as errors and terminate only
// this call; tool execution failures (cluster errors, deadline expiry) come
// back inside the ToolCallResult so the model can react to them.
func (m *SessionManager) Dispatch(ctx context.Context, sessionID string, request *CallRequest) (*api.ToolCallResult, error) {
	tool, err := m.registry.Lookup(request.Tool)
	if err != nil {
		return nil, err
	}
	if err = tool.ValidateArguments(request.Arguments); err != nil {
		return nil, err
	}

	session := m.Session(sessionID)
	callCtx, cancel := context.WithTimeout(ctx, m.callTimeout)
	defer cancel()
	if err = session.begin(request, cancel); err != nil {
		return nil, err
	}

	session.transition(request.ID, CallExecuting)
	result, err := tool.Handler(api.ToolHandlerParams{
		Context:          callCtx,
		KubernetesClient: m.k8s,
		ToolCallRequest:  request,
		ListOutput:       m.listOutput,
	})
	if err == nil && result == nil {
		if ctxErr := callCtx.Err(); ctxErr != nil && errors.Is(ctxErr, context.DeadlineExceeded) {
			err = kubernetes.ErrDeadlineExceeded
		} else {
			err = fmt.Errorf("tool %s returned no result", request.Tool)
		}
	}
	if err != nil {
		session.transition(request.ID, CallFailed)
		// execution failure, delivered to the model as a failed result
		return api.NewToolCallResult("", err), nil
	}
	if result.Error != nil {
		session.transition(request.ID, CallFailed)
	} else {
		session.transition(request.ID, CallCompleted)
	}
	return result, nil
}
