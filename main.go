// The main package for the imagecoleman executable.
package main

import (
	"github.com/nguyenthanhphatdeveloper/imagecoleman/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
