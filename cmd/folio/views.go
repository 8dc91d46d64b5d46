package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var recordView bool

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Print the page-view counter",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		rt := openRuntime()
		defer rt.Close()

		if recordView {
			n, err := rt.Service.RecordPageView(ctx, 1)
			if err != nil {
				fatal("Failed to record page view", err)
			}
			fmt.Println(n)
			return
		}

		n, err := rt.Service.PageViews(ctx)
		if err != nil {
			fatal("Failed to read page views", err)
		}
		fmt.Println(n)
	},
}

func init() {
	rootCmd.AddCommand(viewsCmd)
	viewsCmd.Flags().BoolVar(&recordView, "record", false, "Record one page view first")
}
