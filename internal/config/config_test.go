package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/repo"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"BiographPath", BiographPath, "/test/repo/.biograph"},
		{"ConfigPath", ConfigPath, "/test/repo/.biograph/config.json"},
		{"PersonsPath", PersonsPath, "/test/repo/.biograph/persons.jsonl"},
		{"RelationsPath", RelationsPath, "/test/repo/.biograph/relations.jsonl"},
		{"CodesPath", CodesPath, "/test/repo/.biograph/codes.jsonl"},
		{"CachePath", CachePath, "/test/repo/.biograph/cache"},
		{"DBPath", DBPath, "/test/repo/.biograph/cache/persons.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(root)
			if got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func TestIsRepository(t *testing.T) {
	tmpDir := t.TempDir()

	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true for non-repo directory")
	}

	if err := os.Mkdir(filepath.Join(tmpDir, BiographDir), 0755); err != nil {
		t.Fatalf("Failed to create .biograph: %v", err)
	}

	if !IsRepository(tmpDir) {
		t.Error("IsRepository() = false for repo directory")
	}
}

func TestIsRepository_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, BiographDir), []byte("not a dir"), 0644); err != nil {
		t.Fatalf("Failed to create .biograph file: %v", err)
	}

	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true when .biograph is a file")
	}
}

func TestFindRepository(t *testing.T) {
	// Nested structure: tmp/repo/src/pkg with .biograph at tmp/repo
	tmpDir := t.TempDir()
	repoDir := filepath.Join(tmpDir, "repo")
	nestedDir := filepath.Join(repoDir, "src", "pkg")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}
	if err := os.Mkdir(filepath.Join(repoDir, BiographDir), 0755); err != nil {
		t.Fatalf("Failed to create .biograph: %v", err)
	}

	// Resolve symlinks so the comparison survives macOS /tmp indirection.
	wantRoot, err := filepath.EvalSymlinks(repoDir)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}

	for _, start := range []string{repoDir, nestedDir} {
		got, err := FindRepository(start)
		if err != nil {
			t.Fatalf("FindRepository(%q): %v", start, err)
		}
		gotResolved, err := filepath.EvalSymlinks(got)
		if err != nil {
			t.Fatalf("EvalSymlinks: %v", err)
		}
		if gotResolved != wantRoot {
			t.Errorf("FindRepository(%q) = %q, want %q", start, gotResolved, wantRoot)
		}
	}
}

func TestFindRepositoryNotFound(t *testing.T) {
	if _, err := FindRepository(t.TempDir()); err == nil {
		t.Error("FindRepository succeeded with no repository anywhere above")
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, BiographDir), 0755); err != nil {
		t.Fatalf("Failed to create .biograph: %v", err)
	}

	// No config file: defaults apply.
	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultDepth != DefaultDepth {
		t.Errorf("DefaultDepth = %d, want %d", cfg.DefaultDepth, DefaultDepth)
	}
	if cfg.DefaultLayout != DefaultLayout {
		t.Errorf("DefaultLayout = %q, want %q", cfg.DefaultLayout, DefaultLayout)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, BiographDir), 0755); err != nil {
		t.Fatalf("Failed to create .biograph: %v", err)
	}

	saved := &Config{DefaultDepth: 3, MaxDepth: 5, MaxNodes: 1000, DefaultLayout: "circle"}
	if err := saved.Save(tmpDir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *saved {
		t.Errorf("Load = %+v, want %+v", loaded, saved)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, BiographDir), 0755); err != nil {
		t.Fatalf("Failed to create .biograph: %v", err)
	}
	if err := os.WriteFile(ConfigPath(tmpDir), []byte(`{"max_nodes": 500}`), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxNodes != 500 {
		t.Errorf("MaxNodes = %d, want 500", cfg.MaxNodes)
	}
	// Omitted fields still get defaults.
	if cfg.DefaultDepth != DefaultDepth || cfg.DefaultLayout != DefaultLayout {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
