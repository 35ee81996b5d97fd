package conflate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Format translates between serialized payloads and data trees. Load must
// produce trees built from map[string]any, []any, and scalars; Dump accepts
// the same shapes.
type Format interface {
	// Extensions lists the file extensions (with leading dot) that select
	// this format during extension-based lookup.
	Extensions() []string
	Load(r io.Reader) (any, error)
	Dump(w io.Writer, data any) error
}

// Dispatcher maps format names and file extensions to Format
// implementations. NewDispatcher registers yaml, json, csv, and raw;
// unrecognized extensions fall back to raw.
type Dispatcher struct {
	formats    map[string]Format
	extensions map[string]string
}

// DispatcherOption configures the Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithFormat registers a format under the supplied name, replacing any
// builtin registered under the same name. The format's extensions are added
// to the extension table.
func WithFormat(name string, format Format) DispatcherOption {
	return func(d *Dispatcher) {
		if name == "" || format == nil {
			return
		}
		d.register(strings.ToLower(name), format)
	}
}

// NewDispatcher builds a Dispatcher with the builtin formats registered.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		formats:    make(map[string]Format),
		extensions: make(map[string]string),
	}
	d.register("yaml", NewYAMLFormat())
	d.register("json", NewJSONFormat())
	d.register("csv", NewCSVFormat())
	d.register("raw", NewRawFormat())
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) register(name string, format Format) {
	d.formats[name] = format
	for _, ext := range format.Extensions() {
		d.extensions[strings.ToLower(ext)] = name
	}
}

// Format returns the format registered under name. Unknown names are a
// *FormatError; explicit lookup never falls back.
func (d *Dispatcher) Format(name string) (Format, error) {
	format, ok := d.formats[strings.ToLower(name)]
	if !ok {
		return nil, &FormatError{Name: name}
	}
	return format, nil
}

// FormatName reports the format name registered for the extension, or ""
// when the extension is unrecognized.
func (d *Dispatcher) FormatName(ext string) string {
	return d.extensions[strings.ToLower(ext)]
}

// ByExtension resolves an extension to its format, falling back to raw for
// unrecognized extensions.
func (d *Dispatcher) ByExtension(ext string) Format {
	name := d.FormatName(ext)
	if name == "" {
		name = "raw"
	}
	return d.formats[name]
}

// Extensions returns the sorted list of recognized file extensions.
func (d *Dispatcher) Extensions() []string {
	out := make([]string, 0, len(d.extensions))
	for ext := range d.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Load decodes a payload using the named format.
func (d *Dispatcher) Load(r io.Reader, format string) (any, error) {
	f, err := d.Format(format)
	if err != nil {
		return nil, err
	}
	return f.Load(r)
}

// LoadFile reads and decodes the file at path. When format is empty it is
// inferred from the file extension, with raw as the fallback.
func (d *Dispatcher) LoadFile(path string, format string) (any, error) {
	f, err := d.resolve(path, format)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("conflate: open %s: %w", path, err)
	}
	defer file.Close()
	return f.Load(file)
}

// Dump serializes data using the named format.
func (d *Dispatcher) Dump(w io.Writer, data any, format string) error {
	f, err := d.Format(format)
	if err != nil {
		return err
	}
	return f.Dump(w, data)
}

// DumpFile serializes data to the file at path, creating or truncating it.
// When format is empty it is inferred from the file extension.
func (d *Dispatcher) DumpFile(path string, data any, format string) error {
	f, err := d.resolve(path, format)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("conflate: create %s: %w", path, err)
	}
	defer file.Close()
	if err := f.Dump(file, data); err != nil {
		return err
	}
	return file.Close()
}

func (d *Dispatcher) resolve(path string, format string) (Format, error) {
	if format != "" {
		return d.Format(format)
	}
	return d.ByExtension(filepath.Ext(path)), nil
}
