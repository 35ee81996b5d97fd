package conflate

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLFormat handles .yaml and .yml documents via gopkg.in/yaml.v3.
type YAMLFormat struct {
	flow   bool
	indent int
}

// YAMLOption configures the YAML format.
type YAMLOption func(*YAMLFormat)

// WithFlowStyle emits mappings and sequences in flow style ({k: v}, [a, b])
// instead of block style.
func WithFlowStyle() YAMLOption {
	return func(f *YAMLFormat) {
		f.flow = true
	}
}

// WithYAMLIndent overrides the dump indentation width (default 2).
func WithYAMLIndent(spaces int) YAMLOption {
	return func(f *YAMLFormat) {
		if spaces > 0 {
			f.indent = spaces
		}
	}
}

// NewYAMLFormat builds the YAML format.
func NewYAMLFormat(opts ...YAMLOption) *YAMLFormat {
	f := &YAMLFormat{indent: 2}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Extensions implements Format.
func (f *YAMLFormat) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Load implements Format.
func (f *YAMLFormat) Load(r io.Reader) (any, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("yaml read: %w", err)
	}
	var data any
	if err := yaml.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	return data, nil
}

// Dump implements Format.
func (f *YAMLFormat) Dump(w io.Writer, data any) error {
	var node yaml.Node
	if err := node.Encode(data); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	if f.flow {
		setFlowStyle(&node)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(f.indent)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

func setFlowStyle(node *yaml.Node) {
	if node.Kind == yaml.MappingNode || node.Kind == yaml.SequenceNode {
		node.Style = yaml.FlowStyle
	}
	for _, child := range node.Content {
		setFlowStyle(child)
	}
}

// JSONFormat handles .json and .js documents via encoding/json. Mapping keys
// are always emitted in sorted order, which encoding/json guarantees.
type JSONFormat struct {
	indent int
}

// JSONOption configures the JSON format.
type JSONOption func(*JSONFormat)

// WithJSONIndent overrides the dump indentation width (default 2). Zero
// emits compact output.
func WithJSONIndent(spaces int) JSONOption {
	return func(f *JSONFormat) {
		if spaces >= 0 {
			f.indent = spaces
		}
	}
}

// NewJSONFormat builds the JSON format.
func NewJSONFormat(opts ...JSONOption) *JSONFormat {
	f := &JSONFormat{indent: 2}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Extensions implements Format.
func (f *JSONFormat) Extensions() []string {
	return []string{".json", ".js"}
}

// Load implements Format.
func (f *JSONFormat) Load(r io.Reader) (any, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("json read: %w", err)
	}
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	return data, nil
}

// Dump implements Format.
func (f *JSONFormat) Dump(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if f.indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", f.indent))
	}
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// CSVFormat handles .csv documents. Load reads the first record as a header
// and yields a sequence of mappings, one per row, with string values. Dump
// writes one record per mapping in the sequence.
type CSVFormat struct {
	delimiter rune
	fields    []string
	sortKeys  bool
	listup    bool
	crlf      bool
}

// CSVOption configures the CSV format.
type CSVOption func(*CSVFormat)

// WithDelimiter overrides the field delimiter (default comma).
func WithDelimiter(r rune) CSVOption {
	return func(f *CSVFormat) {
		if r != 0 {
			f.delimiter = r
		}
	}
}

// WithFields fixes the dump column set and order. Without it, columns are
// collected from the rows and emitted in sorted order.
func WithFields(fields ...string) CSVOption {
	return func(f *CSVFormat) {
		f.fields = fields
	}
}

// WithSortedFields sorts the dump columns even when WithFields supplied an
// explicit order.
func WithSortedFields() CSVOption {
	return func(f *CSVFormat) {
		f.sortKeys = true
	}
}

// WithListup scans every row before emitting the header so the column set is
// the deduplicated superset of all row keys, not just the first row's.
func WithListup() CSVOption {
	return func(f *CSVFormat) {
		f.listup = true
	}
}

// WithCRLF terminates dumped records with \r\n instead of \n.
func WithCRLF() CSVOption {
	return func(f *CSVFormat) {
		f.crlf = true
	}
}

// NewCSVFormat builds the CSV format.
func NewCSVFormat(opts ...CSVOption) *CSVFormat {
	f := &CSVFormat{delimiter: ','}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Extensions implements Format.
func (f *CSVFormat) Extensions() []string {
	return []string{".csv"}
}

// Load implements Format.
func (f *CSVFormat) Load(r io.Reader) (any, error) {
	reader := csv.NewReader(r)
	reader.Comma = f.delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return []any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv decode: %w", err)
	}
	rows := []any{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv decode: %w", err)
		}
		row := make(map[string]any, len(header))
		for i, field := range header {
			if i < len(record) {
				row[field] = record[i]
			} else {
				row[field] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Dump implements Format. A single mapping is treated as a one-row sequence.
// Row values missing a column are emitted empty; keys outside the column set
// are ignored.
func (f *CSVFormat) Dump(w io.Writer, data any) error {
	rows, err := csvRows(data)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	fields := f.fields
	if len(fields) == 0 {
		fields = collectFields(rows, f.listup)
	} else if f.listup {
		fields = mergeFields(fields, collectFields(rows, true))
	}
	if f.sortKeys || len(f.fields) == 0 {
		sort.Strings(fields)
	}

	writer := csv.NewWriter(w)
	writer.Comma = f.delimiter
	writer.UseCRLF = f.crlf
	if err := writer.Write(fields); err != nil {
		return fmt.Errorf("csv encode: %w", err)
	}
	record := make([]string, len(fields))
	for _, row := range rows {
		for i, field := range fields {
			record[i] = ""
			if v, ok := row[field]; ok && v != nil {
				record[i] = fmt.Sprint(v)
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("csv encode: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv encode: %w", err)
	}
	return nil
}

func csvRows(data any) ([]map[string]any, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		rows := make([]map[string]any, 0, len(v))
		for _, item := range v {
			row, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("csv encode: row is %s, want mapping", KindOf(item))
			}
			rows = append(rows, row)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("csv encode: data is %s, want sequence of mappings", KindOf(data))
	}
}

// collectFields gathers the column superset. Without listup only the first
// row contributes.
func collectFields(rows []map[string]any, listup bool) []string {
	seen := make(map[string]bool)
	var fields []string
	for i, row := range rows {
		if i > 0 && !listup {
			break
		}
		for key := range row {
			if !seen[key] {
				seen[key] = true
				fields = append(fields, key)
			}
		}
	}
	return fields
}

func mergeFields(explicit, scanned []string) []string {
	seen := make(map[string]bool, len(explicit))
	out := append([]string{}, explicit...)
	for _, field := range explicit {
		seen[field] = true
	}
	for _, field := range scanned {
		if !seen[field] {
			seen[field] = true
			out = append(out, field)
		}
	}
	return out
}

// RawFormat treats the whole payload as one opaque scalar string. It is the
// fallback for unrecognized extensions.
type RawFormat struct{}

// NewRawFormat builds the raw format.
func NewRawFormat() *RawFormat {
	return &RawFormat{}
}

// Extensions implements Format.
func (f *RawFormat) Extensions() []string {
	return []string{".txt"}
}

// Load implements Format.
func (f *RawFormat) Load(r io.Reader) (any, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("raw read: %w", err)
	}
	return string(payload), nil
}

// Dump implements Format. Only scalars can be dumped raw.
func (f *RawFormat) Dump(w io.Writer, data any) error {
	if KindOf(data) != KindScalar {
		return fmt.Errorf("raw encode: data is %s, want scalar", KindOf(data))
	}
	_, err := fmt.Fprint(w, data)
	if err != nil {
		return fmt.Errorf("raw write: %w", err)
	}
	return nil
}
