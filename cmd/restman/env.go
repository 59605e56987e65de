package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/restman/internal/core/model"
	"github.com/sadopc/restman/internal/interchange/postman"
)

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage environments",
	}
	cmd.AddCommand(
		newEnvListCmd(),
		newEnvCreateCmd(),
		newEnvUseCmd(),
		newEnvSetCmd(),
		newEnvDeleteCmd(),
		newEnvExportCmd(),
	)
	return cmd
}

func newEnvListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			envs, err := a.environments.GetAll()
			if err != nil {
				return err
			}
			if len(envs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no environments")
				return nil
			}
			for _, env := range envs {
				marker := " "
				if env.IsActive {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s (%d variables)\n",
					marker, env.ID, env.Name, len(env.Variables))
			}
			return nil
		},
	}
}

func newEnvCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			env, err := a.environments.Create(model.NewEnvironment(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), env.ID)
			return nil
		},
	}
}

func newEnvUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use ID",
		Short: "Make an environment active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.environments.SetActive(args[0])
		},
	}
}

func newEnvSetCmd() *cobra.Command {
	var secret bool
	cmd := &cobra.Command{
		Use:   "set ID KEY=VALUE",
		Short: "Set a variable in an environment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value, ok := strings.Cut(args[1], "=")
			if !ok {
				return fmt.Errorf("variable %q is not key=value", args[1])
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			env, err := a.environments.Get(args[0])
			if err != nil {
				return err
			}
			updated := false
			for i := range env.Variables {
				if strings.EqualFold(env.Variables[i].Key, key) {
					env.Variables[i].Value = value
					env.Variables[i].Enabled = true
					env.Variables[i].IsSecret = secret
					updated = true
					break
				}
			}
			if !updated {
				env.Variables = append(env.Variables, model.Variable{
					KVPair:   model.KVPair{Key: key, Value: value, Enabled: true},
					IsSecret: secret,
				})
			}
			return a.environments.Update(env)
		},
	}
	cmd.Flags().BoolVar(&secret, "secret", false, "mark the variable as a secret")
	return cmd
}

func newEnvDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.environments.Delete(args[0])
		},
	}
}

func newEnvExportCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export an environment as Postman environment JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			env, err := a.environments.Get(args[0])
			if err != nil {
				return err
			}
			data, err := postman.ExportEnvironment(env)
			if err != nil {
				return err
			}
			if outPath == "" {
				cmd.OutOrStdout().Write(data)
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			}
			return os.WriteFile(outPath, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	return cmd
}
