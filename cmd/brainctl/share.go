package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	shareCmd := &cobra.Command{Use: "share", Short: "Share link operations"}

	enableCmd := &cobra.Command{
		Use:   "enable",
		Short: "Enable public sharing and print the link hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(apiFlag+"/api/brain/share", map[string]bool{"share": true})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	shareCmd.AddCommand(enableCmd)

	disableCmd := &cobra.Command{
		Use:   "disable",
		Short: "Disable public sharing",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(apiFlag+"/api/brain/share", map[string]bool{"share": false})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	shareCmd.AddCommand(disableCmd)

	viewCmd := &cobra.Command{
		Use:   "view HASH",
		Short: "View a shared brain by hash (no auth required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(apiFlag + "/api/brain/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	shareCmd.AddCommand(viewCmd)

	rootCmd.AddCommand(shareCmd)
}
