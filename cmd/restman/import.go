package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/restman/internal/interchange/postman"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a Postman collection, environment, or native backup",
		Long: `Import a Postman v2.1 collection or environment export, or a native
backup produced by "collection export-all". The payload kind is detected from
the JSON shape, so all three can be fed through the same command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			switch postman.DetectFormat(data) {
			case postman.FormatCollection:
				col, err := postman.ImportCollection(data)
				if err != nil {
					return err
				}
				if _, err := a.collections.Create(col); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported collection %q (%s)\n", col.Name, col.ID)
				return nil
			case postman.FormatEnvironment:
				env, err := postman.ImportEnvironment(data)
				if err != nil {
					return err
				}
				if _, err := a.environments.Create(env); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported environment %q (%s)\n", env.Name, env.ID)
				return nil
			case postman.FormatNative:
				cols, err := a.collections.ImportAll(data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d collection(s)\n", len(cols))
				return nil
			default:
				return fmt.Errorf("%s: not a recognized Postman export or native backup", args[0])
			}
		},
	}
}
