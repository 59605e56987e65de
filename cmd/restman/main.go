package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "restman",
		Short:         "API client for the terminal",
		Long:          "restman sends HTTP requests and manages collections, environments and request history.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSendCmd(),
		newRunCmd(),
		newCollectionCmd(),
		newEnvCmd(),
		newHistoryCmd(),
		newImportCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
