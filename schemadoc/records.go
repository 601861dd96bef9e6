package schemadoc

import (
	"fmt"
	"io"
	"os"
)

// ReadRecords reads the records stored at path: a single map or a list of
// maps. "-" reads from stdin, in which case the format must be given.
func ReadRecords(path string, f Format) ([]map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		if f == "" {
			if f, err = FormatOf(path); err != nil {
				return nil, err
			}
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("schemadoc: %w", err)
	}
	if f == "" {
		f = FormatJSON
	}
	return DecodeRecords(data, f)
}

// DecodeRecords decodes a single record or a list of records.
func DecodeRecords(data []byte, f Format) ([]map[string]any, error) {
	v, err := decode(data, f)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}, nil
	case []any:
		out := make([]map[string]any, len(t))
		for i, it := range t {
			m, ok := it.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("schemadoc: record %d is not a map", i)
			}
			out[i] = m
		}
		return out, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("schemadoc: expected a record or a list of records, got %T", v)
}
