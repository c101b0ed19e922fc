// Command sylly uploads syllabi to a sylly server and browses the local
// subject folders.
package main

import (
	"os"
)

var version = "dev"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
