package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/restman/internal/core/model"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "Inspect and reuse past requests",
	}
	cmd.AddCommand(
		newHistoryListCmd(),
		newHistorySearchCmd(),
		newHistoryShowCmd(),
		newHistoryRemoveCmd(),
		newHistoryClearCmd(),
		newHistorySaveCmd(),
	)
	return cmd
}

func printHistoryItems(cmd *cobra.Command, items []*model.HistoryItem) {
	for _, item := range items {
		status := "-"
		if item.Response != nil && item.Response.StatusCode > 0 {
			status = fmt.Sprintf("%d", item.Response.StatusCode)
		} else if item.Response != nil && item.Response.ErrorMessage != "" {
			status = "err"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-4s %-7s %s  (%s)\n",
			item.ID, status, item.Request.Method, item.Request.URL, humanize.Time(item.Timestamp))
	}
}

func newHistoryListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent requests, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			items, err := a.history.Recent(limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "history is empty")
				return nil
			}
			printHistoryItems(cmd, items)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show")
	return cmd
}

func newHistorySearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Fuzzy-search history by method and url",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			items, err := a.history.Search(args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			printHistoryItems(cmd, items)
			return nil
		},
	}
}

func newHistoryShowCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a history entry's request and response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			item, err := a.history.GetByID(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s  (%s)\n", item.Request.Method, item.Request.URL, humanize.Time(item.Timestamp))
			for _, h := range item.Request.Headers {
				if h.Enabled {
					fmt.Fprintf(out, "> %s: %s\n", h.Key, h.Value)
				}
			}
			if item.Response != nil {
				fmt.Fprintln(out)
				printResponse(cmd, item.Response, verbose)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print response headers and timing")
	return cmd
}

func newHistoryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a single history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.history.RemoveByID(args[0])
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.history.Clear()
		},
	}
}

func newHistorySaveCmd() *cobra.Command {
	var folderID string
	cmd := &cobra.Command{
		Use:   "save ITEM-ID COLLECTION-ID",
		Short: "Copy a history entry into a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			req, err := a.history.SaveToCollection(a.collections, args[0], args[1], folderID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved as %q (%s)\n", req.Name, req.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&folderID, "folder", "", "target folder id inside the collection")
	return cmd
}
