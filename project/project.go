package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/xtal/xtal/parser"
)

var log = commonlog.GetLogger("xtal.project")

// ConfigNames lists the configuration files looked for in the project root,
// in order of preference.
var ConfigNames = []string{"xtal.toml", "xtal.yaml", "xtal.yml"}

// Project is an XTAL source tree with its configuration.
type Project struct {
	RootDir    string
	ConfigFile string // empty when running on defaults
	Config     Config
}

type Config struct {
	Source SourceConfig `toml:"source" yaml:"source"`
	Parse  ParseConfig  `toml:"parse" yaml:"parse"`
	Watch  WatchConfig  `toml:"watch" yaml:"watch"`
}

type SourceConfig struct {
	Dirs       []string `toml:"dirs" yaml:"dirs"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Exclude    []string `toml:"exclude" yaml:"exclude"`
}

type ParseConfig struct {
	ErrorLimit int `toml:"error_limit" yaml:"error_limit"`
}

type WatchConfig struct {
	Interval Duration `toml:"interval" yaml:"interval"`
}

// Duration decodes "1s"-style strings from both TOML and YAML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Dirs:       []string{"."},
			Extensions: []string{".xtal"},
		},
		Parse: ParseConfig{ErrorLimit: 1},
		Watch: WatchConfig{Interval: Duration(time.Second)},
	}
}

// Load reads the project rooted at the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom reads the configuration file in rootDir, if any. A missing file
// yields the default configuration.
func LoadFrom(rootDir string) (*Project, error) {
	proj := &Project{RootDir: rootDir, Config: DefaultConfig()}

	for _, name := range ConfigNames {
		path := filepath.Join(rootDir, name)
		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		cfg, err := ParseConfigFile(path, content)
		if err != nil {
			return nil, err
		}
		proj.ConfigFile = path
		proj.Config = cfg
		log.Debugf("loaded %s", path)
		return proj, nil
	}

	log.Debugf("no config file in %s, using defaults", rootDir)
	return proj, nil
}

// ParseConfigFile decodes content as TOML or YAML depending on the file
// extension, fills in defaults for omitted keys and validates the result.
func ParseConfigFile(path string, content []byte) (Config, error) {
	cfg := DefaultConfig()
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &cfg)
	case ".toml":
		_, err = toml.Decode(string(content), &cfg)
	default:
		return cfg, fmt.Errorf("%s: unsupported config format", path)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Source.Dirs) == 0 {
		return errors.New("source.dirs must not be empty")
	}
	if len(c.Source.Extensions) == 0 {
		return errors.New("source.extensions must not be empty")
	}
	for _, ext := range c.Source.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("source.extensions: %q must start with '.'", ext)
		}
	}
	if c.Parse.ErrorLimit < 1 {
		return fmt.Errorf("parse.error_limit must be at least 1, got %d", c.Parse.ErrorLimit)
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %s", time.Duration(c.Watch.Interval))
	}
	return nil
}

// IsSource reports whether path has one of the configured extensions.
func (p *Project) IsSource(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range p.Config.Source.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (p *Project) excluded(name string) bool {
	if name != "." && strings.HasPrefix(name, ".") {
		return true
	}
	for _, ex := range p.Config.Source.Exclude {
		if name == ex {
			return true
		}
	}
	return false
}

// Files returns every source file under the configured directories, sorted.
// Hidden and excluded directories are skipped.
func (p *Project) Files() ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, dir := range p.Config.Source.Dirs {
		root := dir
		if !filepath.IsAbs(root) {
			root = filepath.Join(p.RootDir, dir)
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && p.excluded(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if p.IsSource(path) && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ParseOptions returns the parser options for one file of the project.
func (p *Project) ParseOptions(path string) []parser.Option {
	return []parser.Option{
		parser.WithFile(path),
		parser.WithErrorLimit(p.Config.Parse.ErrorLimit),
	}
}

func (p *Project) WatchInterval() time.Duration {
	return time.Duration(p.Config.Watch.Interval)
}
