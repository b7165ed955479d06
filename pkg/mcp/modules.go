package mcp

import (
	_ "github.com/bdastur/k8s-debugger/pkg/toolsets/diagnostics"
)
