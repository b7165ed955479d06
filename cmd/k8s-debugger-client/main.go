package main

import (
	"github.com/bdastur/k8s-debugger/pkg/k8s-debugger-client/cmd"
)

func main() {
	cmd.Execute()
}
