package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type checkOptions struct {
	recordFormat string
}

// CheckResult is the JSON form of one probed patch.
type CheckResult struct {
	Index int        `json:"index"`
	Valid bool       `json:"valid"`
	Error *IssueJSON `json:"error,omitempty"`
}

// NewCheckCommand probes patches against an entity without applying them.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check <schema-file> <type> <record-file> <patches-file|->",
		Short: "Check whether patches would be accepted by an entity",
		Long: `Constructs an entity from the first record of record-file and probes every
patch of patches-file against it. Required fields are not enforced, so partial
patches can be checked. The entity is never modified.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, rootOpts, opts, args[0], args[1], args[2], args[3])
		},
	}
	cmd.Flags().StringVar(&opts.recordFormat, "record-format", "", "patches format when reading stdin (yaml|json|cue)")
	return cmd
}

func runCheck(cmd *cobra.Command, rootOpts *RootOptions, opts *checkOptions, schemaPath, typeName, recordPath, patchesPath string) error {
	t, err := loadType(schemaPath, typeName)
	if err != nil {
		return err
	}
	base, err := readRecords(recordPath, "")
	if err != nil {
		return err
	}
	if len(base) == 0 {
		return NewExitError(ExitCommandError, "record file is empty")
	}
	e, err := t.New(base[0])
	if err != nil {
		return WrapExitError(ExitFailure, "invalid base record", err)
	}
	patches, err := readRecords(patchesPath, opts.recordFormat)
	if err != nil {
		return err
	}

	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	results := make([]CheckResult, 0, len(patches))
	rejected := 0
	for i, p := range patches {
		res := CheckResult{Index: i, Valid: true}
		if err := e.Probe(p); err != nil {
			rejected++
			res.Valid = false
			res.Error = issueJSON(err)
		}
		results = append(results, res)
		if rootOpts.Format == "text" {
			if res.Valid {
				_ = out.Line("✓ patch %d", i)
			} else {
				_ = out.Line("✗ patch %d: %s", i, res.Error.Message)
			}
		}
	}

	if rootOpts.Format == "json" {
		if err := out.JSON(results); err != nil {
			return err
		}
	}
	if rejected > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d patch(es) rejected", rejected))
	}
	return nil
}
