package main

import (
	"os"

	"github.com/kk-code-lab/rview/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
