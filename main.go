// The main package for the doc-intel executable.
package main

import (
	"github.com/mwai-ops/doc-intel/cmd"
)

func main() {
	cmd.Execute()
}
