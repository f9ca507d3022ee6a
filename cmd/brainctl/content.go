package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	contentCmd := &cobra.Command{Use: "content", Short: "Content operations"}

	var typeFlag, titleFlag, linkFlag, bodyFlag string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note or URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"type":    typeFlag,
				"title":   titleFlag,
				"content": bodyFlag,
			}
			if linkFlag != "" {
				payload["link"] = linkFlag
			}
			data, err := doPostJSON(apiFlag+"/api/content", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	addCmd.Flags().StringVarP(&typeFlag, "type", "t", "note", "Content type (note or url)")
	addCmd.Flags().StringVar(&titleFlag, "title", "", "Title (optional for url items)")
	addCmd.Flags().StringVarP(&linkFlag, "link", "l", "", "Link for url items")
	addCmd.Flags().StringVarP(&bodyFlag, "content", "c", "", "Body text")
	contentCmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all content",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(apiFlag + "/api/content")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	contentCmd.AddCommand(listCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete CONTENT_ID",
		Short: "Delete a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doDelete(apiFlag + "/api/content/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	contentCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(contentCmd)
}
