package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/upload"
)

var (
	uploadFolder string
	uploadWeek   string
	listPattern  string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Store images and weekly schedules",
}

var uploadImageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Store an image under images/<folder>",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := openRuntime()
		defer rt.Close()

		f, err := os.Open(args[0])
		if err != nil {
			fatal("Failed to open file", err)
		}
		defer f.Close()

		status, err := rt.Uploads.Image(context.Background(), upload.Request{
			Filename: filepath.Base(args[0]),
			Folder:   uploadFolder,
			Body:     f,
		})
		if err != nil {
			fatal("Upload rejected", err)
		}
		fmt.Printf("%s (%s)\n", status.Message, status.Asset.Path)
	},
}

var uploadScheduleCmd = &cobra.Command{
	Use:   "schedule <file>",
	Short: "Store a PDF as schedules/<week>.pdf",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := openRuntime()
		defer rt.Close()

		f, err := os.Open(args[0])
		if err != nil {
			fatal("Failed to open file", err)
		}
		defer f.Close()

		status, err := rt.Uploads.Schedule(context.Background(), upload.Request{
			Filename: filepath.Base(args[0]),
			Week:     uploadWeek,
			Body:     f,
		})
		if err != nil {
			fatal("Upload rejected", err)
		}
		fmt.Printf("%s (%s)\n", status.Message, status.Asset.Path)
	},
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List stored assets",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rt := openRuntime()
		defer rt.Close()

		refs, err := rt.Assets.List(context.Background(), listPattern)
		if err != nil {
			fatal("Failed to list assets", err)
		}
		for _, ref := range refs {
			fmt.Printf("%s\t%s\t%d\n", ref.Path, ref.ContentType, ref.Size)
		}
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd, assetsCmd)
	uploadCmd.AddCommand(uploadImageCmd, uploadScheduleCmd)
	uploadImageCmd.Flags().StringVar(&uploadFolder, "folder", "", "Target folder below images/")
	uploadScheduleCmd.Flags().StringVar(&uploadWeek, "week", "", "Week of the schedule, e.g. 2024-W18")
	uploadScheduleCmd.MarkFlagRequired("week")
	assetsCmd.Flags().StringVar(&listPattern, "pattern", "**", "Glob pattern, e.g. images/**")
}
