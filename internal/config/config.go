// Package config loads the site configuration from folio.yaml, an optional
// .env file and FOLIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/core"
)

// DefaultFile is the configuration file looked up in the site root.
const DefaultFile = "folio.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FOLIO_"

// Config represents the site configuration.
type Config struct {
	ContentDir    string    `yaml:"content_dir"`
	OutputDir     string    `yaml:"output_dir"`
	Templates     Templates `yaml:"templates"`
	IndexName     string    `yaml:"index_name"`
	SourceExt     string    `yaml:"source_ext"`
	PageExt       string    `yaml:"page_ext"`
	Pattern       string    `yaml:"pattern"`
	EscapeHeaders bool      `yaml:"escape_headers"`
	Publish       Publish   `yaml:"publish"`
}

// Templates locates the page and index layouts, relative to the site root.
type Templates struct {
	Page  string `yaml:"page"`
	Index string `yaml:"index"`
}

// Publish configures the git publish step.
type Publish struct {
	Enabled bool   `yaml:"enabled"`
	Remote  string `yaml:"remote,omitempty"`
	Branch  string `yaml:"branch,omitempty"`
}

// Default returns the configuration of a site with no folio.yaml.
func Default() Config {
	l := core.DefaultLayout()
	return Config{
		ContentDir: l.ContentDir,
		OutputDir:  l.OutputDir,
		Templates: Templates{
			Page:  "templates/post_layout.html",
			Index: "templates/blog_layout.html",
		},
		IndexName: l.IndexName,
		SourceExt: l.SourceExt,
		PageExt:   l.PageExt,
		Publish:   Publish{Enabled: true},
	}
}

// Load builds the configuration for the site at root.
//
// Defaults are overlaid by the YAML file at configPath (DefaultFile under
// root when empty; a missing default file is not an error), then by FOLIO_*
// variables from the process environment or root/.env. Process variables win
// over .env entries.
func Load(root, configPath string) (Config, error) {
	cfg := Default()

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(root, DefaultFile)
	}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	dotenv, err := readDotenv(filepath.Join(root, ".env"))
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if cfg.Pattern == "" {
		cfg.Pattern = "*" + cfg.SourceExt
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readDotenv(p string) (map[string]string, error) {
	values, err := godotenv.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return values, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"CONTENT_DIR":     &c.ContentDir,
		"OUTPUT_DIR":      &c.OutputDir,
		"TEMPLATES_PAGE":  &c.Templates.Page,
		"TEMPLATES_INDEX": &c.Templates.Index,
		"INDEX_NAME":      &c.IndexName,
		"SOURCE_EXT":      &c.SourceExt,
		"PAGE_EXT":        &c.PageExt,
		"PATTERN":         &c.Pattern,
		"PUBLISH_REMOTE":  &c.Publish.Remote,
		"PUBLISH_BRANCH":  &c.Publish.Branch,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"ESCAPE_HEADERS":  &c.EscapeHeaders,
		"PUBLISH_ENABLED": &c.Publish.Enabled,
	}
	for key, dst := range bools {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
		}
		*dst = b
	}
	return nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var problems []string
	required := []struct{ name, value string }{
		{"content_dir", c.ContentDir},
		{"output_dir", c.OutputDir},
		{"templates.page", c.Templates.Page},
		{"templates.index", c.Templates.Index},
		{"index_name", c.IndexName},
		{"source_ext", c.SourceExt},
		{"page_ext", c.PageExt},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems = append(problems, r.name+" is required")
		}
	}
	for _, ext := range []struct{ name, value string }{{"source_ext", c.SourceExt}, {"page_ext", c.PageExt}} {
		if ext.value != "" && !strings.HasPrefix(ext.value, ".") {
			problems = append(problems, ext.name+" must start with a dot")
		}
	}
	if c.SourceExt != "" && c.SourceExt == c.PageExt {
		problems = append(problems, "source_ext and page_ext must differ")
	}
	for _, dir := range []struct{ name, value string }{{"content_dir", c.ContentDir}, {"output_dir", c.OutputDir}} {
		if escapesRoot(dir.value) {
			problems = append(problems, dir.name+" must stay inside the site root")
		}
	}
	if strings.ContainsAny(c.IndexName, `/\`) {
		problems = append(problems, "index_name must be a file name")
	}
	if c.Publish.Branch != "" && c.Publish.Remote == "" {
		problems = append(problems, "publish.branch requires publish.remote")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Layout returns the document and output locations the configuration
// describes.
func (c Config) Layout() core.Layout {
	return core.Layout{
		ContentDir: path.Clean(filepath.ToSlash(c.ContentDir)),
		OutputDir:  path.Clean(filepath.ToSlash(c.OutputDir)),
		SourceExt:  c.SourceExt,
		PageExt:    c.PageExt,
		IndexName:  c.IndexName,
	}
}

func escapesRoot(dir string) bool {
	if dir == "" {
		return false
	}
	p := path.Clean(filepath.ToSlash(dir))
	return path.IsAbs(p) || p == ".." || strings.HasPrefix(p, "../")
}
