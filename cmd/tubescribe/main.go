package main

import (
	"os"

	"github.com/devbush/tubescribe/internal/adapters/cli"
)

func main() {
	os.Exit(cli.Execute())
}
