package main

import (
	"os"

	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
