package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	for _, kind := range []string{"posts", "thoughts", "events"} {
		rootCmd.AddCommand(kindCommand(kind))
	}
}

// kindCommand builds the identical subcommand tree for one content kind.
func kindCommand(kind string) *cobra.Command {
	cmd := &cobra.Command{Use: kind, Short: "Operations on " + kind}

	var allFlag bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List " + kind,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/" + kind
			if allFlag {
				if err := requireToken(); err != nil {
					return err
				}
				path = "/api/admin/" + kind
			}
			data, err := doGet(path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	listCmd.Flags().BoolVar(&allFlag, "all", false, "Include hidden entries (requires --token)")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Publish an entry",
		Args:  cobra.ExactArgs(1),
		RunE:  statusRunE(kind, "show"),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "hide ID",
		Short: "Hide an entry",
		Args:  cobra.ExactArgs(1),
		RunE:  statusRunE(kind, "hide"),
	})

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			data, err := doJSON(http.MethodDelete, "/api/admin/"+kind+"/"+args[0], nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	cmd.AddCommand(deleteCmd)

	return cmd
}

func statusRunE(kind, status string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		data, err := doJSON(http.MethodPatch,
			"/api/admin/"+kind+"/"+args[0]+"/status",
			map[string]string{"status": status})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(os.Stdout, string(data))
		return nil
	}
}
