package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mj1618/menubar-shelf/internal/model"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ItemsResult is the top-level output of the `list` command.
type ItemsResult struct {
	TS    int64               `yaml:"ts"    json:"ts"`
	Count int                 `yaml:"count" json:"count"`
	Items []model.MenuBarItem `yaml:"items" json:"items"`
}

// NewItemsResult wraps items with a timestamp and count.
func NewItemsResult(ts int64, items []model.MenuBarItem) ItemsResult {
	if items == nil {
		items = []model.MenuBarItem{}
	}
	return ItemsResult{TS: ts, Count: len(items), Items: items}
}

// ActionResult reports a forwarded click.
type ActionResult struct {
	OK     bool   `yaml:"ok"               json:"ok"`
	Action string `yaml:"action"           json:"action"`
	Owner  string `yaml:"owner,omitempty"  json:"owner,omitempty"`
	Key    string `yaml:"key,omitempty"    json:"key,omitempty"`
	Button string `yaml:"button,omitempty" json:"button,omitempty"`
	X      int    `yaml:"x"                json:"x"`
	Y      int    `yaml:"y"                json:"y"`
	Error  string `yaml:"error,omitempty"  json:"error,omitempty"`
}

// CaptureResult reports a saved thumbnail.
type CaptureResult struct {
	Owner  string `yaml:"owner"          json:"owner"`
	Key    string `yaml:"key"            json:"key"`
	Path   string `yaml:"path,omitempty" json:"path,omitempty"`
	Width  int    `yaml:"width"          json:"width"`
	Height int    `yaml:"height"         json:"height"`
	Bytes  string `yaml:"bytes"          json:"bytes"`
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatYAML:
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q (expected yaml or json)", s)
	}
}

// DetectFormat picks the output format: an explicit flag wins, otherwise
// YAML for terminals and JSON when stdout is piped.
func DetectFormat(flag string, stdoutIsTerminal bool) (Format, error) {
	if flag != "" {
		return ParseFormat(flag)
	}
	if stdoutIsTerminal {
		return FormatYAML, nil
	}
	return FormatJSON, nil
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(v)
		}
		return PrintJSON(v)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to stdout as compact single-line JSON.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintPrettyJSON serializes v to stdout as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// YAMLText renders v as YAML for embedding in tool results.
func YAMLText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}
