// The main package for the travelhub executable.
package main

import (
	"github.com/JakeFAU/travelhub/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
