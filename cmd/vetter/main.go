package main

import (
	"os"

	"github.com/dshills/vetter/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
