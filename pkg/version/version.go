package version

// Overridden at build time with -ldflags.
var (
	BinaryName = "k8s-debugger"
	Version    = "0.0.0-dev"
)
