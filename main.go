// The main package for the raffaello executable.
package main

import (
	"github.com/beckettonfilm-sys/raffaello/cmd"
)

// main defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
