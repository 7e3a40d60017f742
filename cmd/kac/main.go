package main

import (
	"os"

	"github.com/kac-dev/kac/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
