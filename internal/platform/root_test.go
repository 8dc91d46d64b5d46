package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRoot(t *testing.T) {
	// baseDir/
	//   site/ (.folio)
	//     content/
	//       drafts/
	//   configured/ (folio.yaml)
	//   empty/
	baseDir := t.TempDir()
	siteDir := filepath.Join(baseDir, "site")
	contentDir := filepath.Join(siteDir, "content")
	draftsDir := filepath.Join(contentDir, "drafts")
	configuredDir := filepath.Join(baseDir, "configured")
	emptyDir := filepath.Join(baseDir, "empty")

	for _, dir := range []string{draftsDir, configuredDir, emptyDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(siteDir, ".folio"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configuredDir, "folio.yaml"), []byte("adapter: memory\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{name: "at root", startPath: siteDir, wantRoot: siteDir},
		{name: "in subdir", startPath: contentDir, wantRoot: siteDir},
		{name: "nested deeply", startPath: draftsDir, wantRoot: siteDir},
		{name: "config file marker", startPath: configuredDir, wantRoot: configuredDir},
		{name: "no root found", startPath: emptyDir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindRoot() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != "" && filepath.Clean(got) != filepath.Clean(tt.wantRoot) {
				t.Errorf("FindRoot() = %v, want %v", got, tt.wantRoot)
			}
		})
	}
}
