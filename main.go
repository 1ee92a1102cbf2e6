package main

import (
	"os"

	"github.com/dpshade/pocket-kdp/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
