package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Fetch the content summary statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/summary")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	})
}
