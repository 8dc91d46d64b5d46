package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/git"
)

var initGit bool

const configTemplate = `# folio configuration. Every key can be overridden with FOLIO_<KEY>,
# nested keys with FOLIO_<SECTION>_<KEY> (e.g. FOLIO_ADMIN_PASSWORD).
adapter: fs
defaults: content.yaml
export_format: json
versioned_export: %t

admin:
  password: ""
  ttl: 12h

contact:
  endpoint: ""

server:
  addr: ":8080"
`

const contentTemplate = `hero:
  title: ""
  subtitle: ""
about:
  title: ""
  description: ""
legal:
  impressum: ""
  datenschutz: ""
personalInfo:
  name: ""
  email: ""
  address:
    street: ""
    city: ""
impressum:
  company: ""
datenschutz:
  lastUpdated: ""
`

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a folio data directory",
	Long: `Create folio.yaml, an empty content.yaml and the .folio system directory.
With --git, the directory also becomes a git repository and exports are
committed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(filepath.Join(dir, cfg.SystemDir), 0755); err != nil {
			fatal("Failed to create data directory", err)
		}

		files := map[string]string{
			"folio.yaml":   fmt.Sprintf(configTemplate, initGit),
			"content.yaml": contentTemplate,
		}
		for name, body := range files {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				slog.Debug("keeping existing file", "path", path)
				continue
			}
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				fatal("Failed to write "+name, err)
			}
		}

		if initGit {
			if !git.IsInstalled() {
				fatal("Cannot initialize git", errors.New("git is not installed"))
			}
			if err := git.NewClient(dir, "", slog.Default()).Init(); err != nil {
				fatal("Failed to initialize git", err)
			}
		}

		fmt.Println("Initialized folio in", dir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initGit, "git", false, "Initialize a git repository for versioned exports")
}
