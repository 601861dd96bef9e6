package cli

import (
	"fmt"
	"log/slog"

	gomodel "github.com/reoring/gomodel"
	"github.com/reoring/gomodel/schemadoc"
)

// loadType loads the schema document at path and returns the compiled
// entity type name.
func loadType(path, name string) (*gomodel.EntityType, error) {
	doc, err := schemadoc.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load schema", err)
	}
	t, ok := doc.Type(name)
	if !ok {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("type %q is not declared in %s (declared: %v)", name, path, doc.TypeNames()))
	}
	if err := t.Compile(); err != nil {
		return nil, WrapExitError(ExitCommandError, "compile "+name, err)
	}
	slog.Debug("schema loaded", "path", path, "type", name, "types", len(doc.TypeNames()))
	return t, nil
}

// readRecords reads records from path ("-" for stdin in format).
func readRecords(path, format string) ([]map[string]any, error) {
	var f schemadoc.Format
	if format != "" {
		var err error
		if f, err = schemadoc.ParseFormat(format); err != nil {
			return nil, WrapExitError(ExitCommandError, "records", err)
		}
	}
	records, err := schemadoc.ReadRecords(path, f)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "read records", err)
	}
	return records, nil
}
