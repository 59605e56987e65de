package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "run REQUEST-ID",
		Short: "Send a saved request by id",
		Long: `Look up a saved request in any collection, at the root or nested in a
folder, resolve its variables against the active environment, and send it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			_, req, err := a.collections.LocateRequest(args[0])
			if err != nil {
				return err
			}
			resp, err := a.runner.Send(cmd.Context(), req)
			if err != nil {
				return err
			}
			printResponse(cmd, resp, verbose)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print response headers and timing")
	return cmd
}
