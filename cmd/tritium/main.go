// Command tritium runs the fusion fuel cycle model.
package main

import (
	"os"

	"github.com/roach88/tritium/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Stderr))
}
