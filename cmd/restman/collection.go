package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/restman/internal/core/model"
	"github.com/sadopc/restman/internal/interchange/postman"
)

func newCollectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   "Manage request collections",
	}
	cmd.AddCommand(
		newCollectionListCmd(),
		newCollectionShowCmd(),
		newCollectionCreateCmd(),
		newCollectionDeleteCmd(),
		newCollectionExportCmd(),
		newCollectionExportAllCmd(),
	)
	return cmd
}

func newCollectionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			cols, err := a.collections.GetAll()
			if err != nil {
				return err
			}
			if len(cols) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no collections")
				return nil
			}
			for _, col := range cols {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%d requests, updated %s)\n",
					col.ID, col.Name, countRequests(col), humanize.Time(col.UpdatedAt))
			}
			return nil
		},
	}
}

func countRequests(col *model.Collection) int {
	n := len(col.Requests)
	var walk func(folders []*model.Folder)
	walk = func(folders []*model.Folder) {
		for _, f := range folders {
			n += len(f.Requests)
			walk(f.Folders)
		}
	}
	walk(col.Folders)
	return n
}

func newCollectionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a collection's tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			col, err := a.collections.Get(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, col.Name)
			for _, req := range col.Requests {
				fmt.Fprintf(out, "  %s %s  [%s]\n", req.Method, req.Name, req.ID)
			}
			var walk func(folders []*model.Folder, indent string)
			walk = func(folders []*model.Folder, indent string) {
				for _, f := range folders {
					fmt.Fprintf(out, "%s%s/  [%s]\n", indent, f.Name, f.ID)
					for _, req := range f.Requests {
						fmt.Fprintf(out, "%s  %s %s  [%s]\n", indent, req.Method, req.Name, req.ID)
					}
					walk(f.Folders, indent+"  ")
				}
			}
			walk(col.Folders, "  ")
			return nil
		},
	}
}

func newCollectionCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			col, err := a.collections.Create(model.NewCollection(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), col.ID)
			return nil
		},
	}
}

func newCollectionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a collection and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.collections.Delete(args[0])
		},
	}
}

func newCollectionExportCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export a collection as Postman v2.1 JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			col, err := a.collections.Get(args[0])
			if err != nil {
				return err
			}
			data, err := postman.ExportCollection(col)
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

func newCollectionExportAllCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export-all",
		Short: "Export every collection as one native JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			data, err := a.collections.ExportAll()
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
