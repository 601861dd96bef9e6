package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

type validateOptions struct {
	recordFormat string
	dump         bool
}

// ValidateResult is the JSON form of one validated record.
type ValidateResult struct {
	Index int            `json:"index"`
	Valid bool           `json:"valid"`
	Data  map[string]any `json:"data,omitempty"`
	Error *IssueJSON     `json:"error,omitempty"`
}

// NewValidateCommand constructs an entity from every record and prints its
// JSON projection or the reason it was rejected.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <schema-file> <type> <records-file|->",
		Short: "Validate records against an entity type",
		Long: `Constructs one entity per record (a single map or a list of maps) and
reports the normalized JSON projection of valid records and the issue of
invalid ones. Exits with code 1 when any record is invalid.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, opts, args[0], args[1], args[2])
		},
	}
	cmd.Flags().StringVar(&opts.recordFormat, "record-format", "", "records format when reading stdin (yaml|json|cue)")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "dump the committed snapshot of valid records")
	return cmd
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions, opts *validateOptions, schemaPath, typeName, recordsPath string) error {
	t, err := loadType(schemaPath, typeName)
	if err != nil {
		return err
	}
	records, err := readRecords(recordsPath, opts.recordFormat)
	if err != nil {
		return err
	}

	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	results := make([]ValidateResult, 0, len(records))
	invalid := 0
	for i, rec := range records {
		res := ValidateResult{Index: i}
		e, err := t.New(rec)
		if err == nil {
			res.Data, err = e.ToJSON()
		}
		if err != nil {
			invalid++
			res.Error = issueJSON(err)
			results = append(results, res)
			if rootOpts.Format == "text" {
				_ = out.Line("✗ record %d: %s", i, err)
			}
			continue
		}
		res.Valid = true
		results = append(results, res)
		if rootOpts.Format == "text" {
			_ = out.Line("✓ record %d %s", i, e)
			if opts.dump {
				spew.Fdump(cmd.OutOrStdout(), e.Data().Map())
			}
		}
	}

	if rootOpts.Format == "json" {
		if err := out.JSON(results); err != nil {
			return err
		}
	} else {
		_ = out.Line("%d of %d records valid", len(records)-invalid, len(records))
	}
	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d invalid record(s)", invalid))
	}
	return nil
}
