// Package loader discovers model documents on disk and decodes them into
// core models. JSON and YAML documents share one decode path: YAML is
// converted to JSON first.
package loader

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/leapstack-labs/concerto/pkg/core"
	"gopkg.in/yaml.v3"
)

// Default discovery patterns, matched against slash-separated paths
// relative to the directory being scanned.
var (
	DefaultInclude = []string{"**/*.json", "**/*.yaml", "**/*.yml"}
	DefaultExclude = []string{"**/node_modules/**", "**/.*/**"}
)

// Format is the encoding of a model document.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf returns the document format implied by a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// Options configures a Loader.
type Options struct {
	// Include patterns select files. Empty means DefaultInclude.
	Include []string
	// Exclude patterns drop files selected by Include. Nil means DefaultExclude.
	Exclude []string
	Logger  *slog.Logger
}

// Loader reads model documents from the filesystem.
type Loader struct {
	include []string
	exclude []string
	logger  *slog.Logger
}

// Source is one loaded file and the models it declared.
type Source struct {
	Path   string
	Models []*core.Model
}

// New creates a Loader. Invalid patterns are rejected.
func New(opts Options) (*Loader, error) {
	l := &Loader{
		include: opts.Include,
		exclude: opts.Exclude,
		logger:  opts.Logger,
	}
	if len(l.include) == 0 {
		l.include = DefaultInclude
	}
	if l.exclude == nil {
		l.exclude = DefaultExclude
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}

	for _, p := range append(append([]string{}, l.include...), l.exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return l, nil
}

// Discover returns the model files under dir, sorted by path.
func (l *Loader) Discover(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if l.matches(filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	sort.Strings(files)
	l.logger.Debug("discovered model files", slog.String("dir", dir), slog.Int("count", len(files)))
	return files, nil
}

func (l *Loader) matches(rel string) bool {
	for _, p := range l.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	for _, p := range l.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// LoadFile decodes every model in one document.
func (l *Loader) LoadFile(path string) ([]*core.Model, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, &FileError{File: path, Err: core.NewParseError(core.CodeMalformedDocument, "unsupported file extension %q", filepath.Ext(path))}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	models, err := Decode(data, format)
	if err != nil {
		return nil, &FileError{File: path, Err: err}
	}

	for _, m := range models {
		if m.SourceURI == nil {
			m.SourceURI = core.Ptr(path)
		}
	}
	l.logger.Debug("loaded model file", slog.String("path", path), slog.Int("models", len(models)))
	return models, nil
}

// LoadDir discovers and loads every model file under dir. It stops at the
// first file that fails to decode.
func (l *Loader) LoadDir(dir string) ([]Source, error) {
	files, err := l.Discover(dir)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(files))
	for _, f := range files {
		models, err := l.LoadFile(f)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{Path: f, Models: models})
	}
	return sources, nil
}

// LoadPaths loads each path, scanning directories and reading files directly.
func (l *Loader) LoadPaths(paths ...string) ([]Source, error) {
	var sources []Source
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if info.IsDir() {
			dirSources, err := l.LoadDir(p)
			if err != nil {
				return nil, err
			}
			sources = append(sources, dirSources...)
			continue
		}
		models, err := l.LoadFile(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{Path: p, Models: models})
	}
	return sources, nil
}

// Models flattens sources into one slice in load order.
func Models(sources []Source) []*core.Model {
	var out []*core.Model
	for _, s := range sources {
		out = append(out, s.Models...)
	}
	return out
}

// Decode decodes a document in the given format.
func Decode(data []byte, format Format) ([]*core.Model, error) {
	if format == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	}
	return core.DecodeDocument(data)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, core.NewParseError(core.CodeMalformedDocument, "invalid YAML").Wrap(err)
	}
	normalized, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(normalized)
	if err != nil {
		return nil, core.NewParseError(core.CodeMalformedDocument, "cannot convert YAML to JSON").Wrap(err)
	}
	return out, nil
}

// normalize turns the generic YAML tree into one encoding/json accepts:
// mapping keys must be strings.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			key, ok := k.(string)
			if !ok {
				return nil, core.NewParseError(core.CodeMalformedDocument, "mapping key %v is not a string", k)
			}
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		for i, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	default:
		return v, nil
	}
}

// FileError reports a document that could not be decoded.
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

// Unwrap returns the decode error.
func (e *FileError) Unwrap() error {
	return e.Err
}
