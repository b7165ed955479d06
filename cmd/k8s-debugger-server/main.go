package main

import (
	"os"

	"github.com/bdastur/k8s-debugger/pkg/k8s-debugger-server/cmd"
)

func main() {
	streams := cmd.IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
	if err := cmd.NewMCPServer(streams).Execute(); err != nil {
		os.Exit(1)
	}
}
