package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/content"
	"github.com/aretw0/folio/pkg/core"
)

var (
	getFormat    string
	getPersisted bool
	saveFrom     string
)

// resume overlays the persisted sections on the default content so that
// edits start from the last saved state.
func resume(ctx context.Context, svc *core.Service) {
	persisted, err := svc.Persisted(ctx)
	if err != nil {
		fatal("Failed to read persisted content", err)
	}
	data, err := content.Encode(content.Merge(svc.Document(), persisted), content.FormatJSON)
	if err != nil {
		fatal("Failed to encode content", err)
	}
	svc.LoadFrom(bytes.NewReader(data), content.FormatJSON)
}

func printDocument(doc content.Map, format string) {
	f, err := content.ParseFormat(format)
	if err != nil {
		fatal("Invalid format", err)
	}
	data, err := content.Encode(doc, f)
	if err != nil {
		fatal("Failed to encode content", err)
	}
	fmt.Println(string(bytes.TrimRight(data, "\n")))
}

var getCmd = &cobra.Command{
	Use:   "get [path]",
	Short: "Print the content document or one value",
	Long: `Print the session content (defaults overlaid with saved sections).
With a dotted path, only the value at that path is printed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		rt := openRuntime()
		defer rt.Close()

		var doc content.Map
		if getPersisted {
			var err error
			if doc, err = rt.Service.Persisted(ctx); err != nil {
				fatal("Failed to read persisted content", err)
			}
		} else {
			resume(ctx, rt.Service)
			doc = rt.Service.Document()
		}

		if len(args) == 0 {
			printDocument(doc, getFormat)
			return
		}

		node, ok := content.Get(doc, args[0])
		if !ok {
			fatal("Not found", fmt.Errorf("%s", args[0]))
		}
		switch n := node.(type) {
		case content.Leaf:
			fmt.Println(string(n))
		case content.Map:
			printDocument(n, getFormat)
		}
	},
}

var setCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a value and save its section",
	Long: `Set the leaf at a dotted path, creating missing parents, then save the
top-level section the path belongs to.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		rt := openRuntime()
		defer rt.Close()

		resume(ctx, rt.Service)
		if err := rt.Service.Update(ctx, args[0], args[1]); err != nil {
			fatal("Failed to update content", err)
		}
		_, res, err := rt.Service.Save(ctx, rt.Service.Dirty()...)
		if err != nil {
			fatal("Failed to save content", err)
		}
		reportSave(res)
	},
}

var saveCmd = &cobra.Command{
	Use:   "save [sections...]",
	Short: "Save sections of the default content",
	Long: `Save the named top-level sections of the session content. Each section
replaces the persisted one wholesale; other persisted sections are kept.
With --from, the sections are read from a JSON or YAML file instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		rt := openRuntime()
		defer rt.Close()

		if saveFrom != "" {
			f, err := os.Open(saveFrom)
			if err != nil {
				fatal("Failed to open file", err)
			}
			defer f.Close()
			partial, err := content.Decode(f, content.FormatFromExt(saveFrom))
			if err != nil {
				fatal("Failed to parse file", err)
			}
			if len(args) > 0 {
				partial = content.Pick(partial, args...)
			}
			_, res, err := rt.Service.SaveSection(ctx, partial)
			if err != nil {
				fatal("Failed to save content", err)
			}
			reportSave(res)
			return
		}

		_, res, err := rt.Service.Save(ctx, args...)
		if err != nil {
			fatal("Failed to save content", err)
		}
		reportSave(res)
	},
}

func reportSave(res core.SaveResult) {
	fmt.Printf("Saved sections %v.\n", res.Sections)
	if res.Artifact != "" {
		fmt.Println("Exported to", res.Artifact)
	}
}

var exportStdout bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the persisted content",
	Long:  `Write the persisted content to the export artifact, or to stdout with --stdout.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		rt := openRuntime()
		defer rt.Close()

		if exportStdout {
			doc, err := rt.Service.Persisted(ctx)
			if err != nil {
				fatal("Failed to read persisted content", err)
			}
			printDocument(doc, string(content.FormatJSON))
			return
		}

		artifact, err := rt.Service.Export(ctx)
		if err != nil {
			fatal("Failed to export content", err)
		}
		fmt.Println("Exported to", artifact)
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the internal state of each component",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rt := openRuntime()
		defer rt.Close()

		states := make(map[string]any)
		for _, c := range rt.Components() {
			states[c.ComponentType()] = c.State()
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(states); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd, setCmd, saveCmd, exportCmd, stateCmd)
	getCmd.Flags().StringVarP(&getFormat, "format", "f", "json", "Output format (json, yaml)")
	getCmd.Flags().BoolVar(&getPersisted, "persisted", false, "Read the persisted document only")
	saveCmd.Flags().StringVar(&saveFrom, "from", "", "Read the sections from a JSON or YAML file")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Print the document instead of writing the artifact")
}
