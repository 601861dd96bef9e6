package schemadoc

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/reoring/gomodel/codec"
)

// Format names a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	}
	return "", fmt.Errorf("schemadoc: unsupported file extension %q", filepath.Ext(path))
}

// ParseFormat validates a format name ("yaml", "yml", "json", "cue").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "cue":
		return FormatCUE, nil
	}
	return "", fmt.Errorf("schemadoc: unknown format %q", name)
}

// decode reads one document into plain Go data: map[string]any, []any and
// scalars.
func decode(data []byte, f Format) (any, error) {
	var out any
	switch f {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("schemadoc: decode yaml: %w", err)
		}
	case FormatJSON:
		v, err := codec.DecodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("schemadoc: decode json: %w", err)
		}
		out = v
	case FormatCUE:
		ctx := cuecontext.New()
		v := ctx.CompileBytes(data, cue.Filename("document.cue"))
		if err := v.Err(); err != nil {
			return nil, fmt.Errorf("schemadoc: compile cue: %w", err)
		}
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return nil, fmt.Errorf("schemadoc: cue value is not concrete: %w", err)
		}
		if err := v.Decode(&out); err != nil {
			return nil, fmt.Errorf("schemadoc: decode cue: %w", err)
		}
	default:
		return nil, fmt.Errorf("schemadoc: unknown format %q", f)
	}
	return plain(out), nil
}

// plain rewrites maps with non-string keys (YAML allows them) into
// map[string]any.
func plain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, it := range t {
			t[k] = plain(it)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, it := range t {
			out[fmt.Sprint(k)] = plain(it)
		}
		return out
	case []any:
		for i, it := range t {
			t[i] = plain(it)
		}
		return t
	}
	return v
}
