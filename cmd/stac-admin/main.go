package main

import (
	"os"

	"github.com/NASA-IMPACT/stac-admin/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
