// Command selfie is a declarative, environment-aware package
// orchestrator: it reads package definitions from a local directory
// and installs them in dependency order.
package main

import (
	"os"

	"github.com/selfiecli/selfie/cli"
)

func main() {
	os.Exit(cli.Execute())
}
