package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	var query string
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Ask a question over your saved content",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return fmt.Errorf("--query required")
			}
			data, err := doPostJSON(apiFlag+"/api/search", map[string]string{"query": query})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	searchCmd.Flags().StringVarP(&query, "query", "q", "", "Search query text (required)")
	_ = searchCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(searchCmd)
}
