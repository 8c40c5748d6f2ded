package main

import (
	"fmt"
	"os"

	"github.com/sangkips/salonpro-api/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand(cli.EnvRuntime{})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "salonctl:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
