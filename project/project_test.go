package project

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromDefaults(t *testing.T) {
	dir := t.TempDir()
	proj, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if proj.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty", proj.ConfigFile)
	}
	if !reflect.DeepEqual(proj.Config, DefaultConfig()) {
		t.Errorf("Config = %+v, want defaults", proj.Config)
	}
	if proj.WatchInterval() != time.Second {
		t.Errorf("WatchInterval = %v", proj.WatchInterval())
	}
}

func TestLoadFromFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "xtal.toml",
			content: `[source]
dirs = ["src"]
exclude = ["vendor"]
[parse]
error_limit = 10
[watch]
interval = "250ms"
`,
		},
		{
			name: "yaml",
			file: "xtal.yaml",
			content: `source:
  dirs: [src]
  exclude: [vendor]
parse:
  error_limit: 10
watch:
  interval: 250ms
`,
		},
		{
			name: "yml",
			file: "xtal.yml",
			content: `source:
  dirs: [src]
  exclude: [vendor]
parse:
  error_limit: 10
watch:
  interval: 250ms
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, tt.file), tt.content)

			proj, err := LoadFrom(dir)
			if err != nil {
				t.Fatalf("LoadFrom: %v", err)
			}
			if filepath.Base(proj.ConfigFile) != tt.file {
				t.Errorf("ConfigFile = %q", proj.ConfigFile)
			}
			cfg := proj.Config
			if !reflect.DeepEqual(cfg.Source.Dirs, []string{"src"}) {
				t.Errorf("Dirs = %v", cfg.Source.Dirs)
			}
			if !reflect.DeepEqual(cfg.Source.Extensions, []string{".xtal"}) {
				t.Errorf("Extensions = %v, want default", cfg.Source.Extensions)
			}
			if cfg.Parse.ErrorLimit != 10 {
				t.Errorf("ErrorLimit = %d", cfg.Parse.ErrorLimit)
			}
			if proj.WatchInterval() != 250*time.Millisecond {
				t.Errorf("WatchInterval = %v", proj.WatchInterval())
			}
		})
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[source\n", "parse"},
		{"error limit", "[parse]\nerror_limit = 0\n", "error_limit"},
		{"extension", "[source]\nextensions = [\"xtal\"]\n", "extensions"},
		{"empty dirs", "[source]\ndirs = []\n", "dirs"},
		{"interval", "[watch]\ninterval = \"soon\"\n", "duration"},
		{"negative interval", "[watch]\ninterval = \"-1s\"\n", "interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "xtal.toml"), tt.content)
			_, err := LoadFrom(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestTomlPreferredOverYaml(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "xtal.toml"), "[parse]\nerror_limit = 3\n")
	writeFile(t, filepath.Join(dir, "xtal.yaml"), "parse:\n  error_limit: 7\n")

	proj, err := LoadFrom(dir)
	if err != nil {
		t.Fatal(err)
	}
	if proj.Config.Parse.ErrorLimit != 3 {
		t.Errorf("ErrorLimit = %d, want 3 from xtal.toml", proj.Config.Parse.ErrorLimit)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "xtal.toml"), "[source]\nexclude = [\"vendor\"]\n")
	writeFile(t, filepath.Join(dir, "main.xtal"), "a: 1")
	writeFile(t, filepath.Join(dir, "lib", "util.xtal"), "b: 2")
	writeFile(t, filepath.Join(dir, "lib", "notes.txt"), "")
	writeFile(t, filepath.Join(dir, "vendor", "dep.xtal"), "")
	writeFile(t, filepath.Join(dir, ".git", "x.xtal"), "")

	proj, err := LoadFrom(dir)
	if err != nil {
		t.Fatal(err)
	}
	files, err := proj.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{
		filepath.Join(dir, "lib", "util.xtal"),
		filepath.Join(dir, "main.xtal"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Files = %v, want %v", files, want)
	}
}

func TestParseOptions(t *testing.T) {
	proj := &Project{RootDir: ".", Config: DefaultConfig()}
	proj.Config.Parse.ErrorLimit = 5
	if got := len(proj.ParseOptions("a.xtal")); got != 2 {
		t.Errorf("len(ParseOptions) = %d, want 2", got)
	}
	if !proj.IsSource("x/a.xtal") || proj.IsSource("a.txt") {
		t.Error("IsSource mismatch")
	}
}
