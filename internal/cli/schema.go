package cli

import (
	"github.com/spf13/cobra"
)

// NewSchemaCommand prints the JSON Schema of an entity type.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <schema-file> <type>",
		Short: "Print the JSON Schema of an entity type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadType(args[0], args[1])
			if err != nil {
				return err
			}
			s, err := t.JSONSchema()
			if err != nil {
				return WrapExitError(ExitCommandError, "export "+args[1], err)
			}
			out := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
			return out.JSON(s)
		},
	}
}
