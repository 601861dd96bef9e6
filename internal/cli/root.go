package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	gomodel "github.com/reoring/gomodel"
	"github.com/reoring/gomodel/i18n"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config   string
	Verbose  bool
	Format   string // "json" | "text"
	Language string // message language, "en" | "ru"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the gomodel CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "gomodel",
		Short:         "gomodel - always-valid entities from schema documents",
		Long:          "Validate records against entity types declared in YAML, JSON or CUE schema documents.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default ./gomodel.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Language, "lang", "en", "message language (en|ru)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// resolve merges the config file and GOMODEL_* environment into flags that
// were not given explicitly, then applies language and logging.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	v, err := loadConfig(o.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "config", err)
	}
	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.Format = v.GetString(cfgKeyFormat)
	}
	if !flags.Changed("lang") {
		o.Language = v.GetString(cfgKeyLanguage)
	}
	if !flags.Changed("verbose") {
		o.Verbose = v.GetBool(cfgKeyVerbose)
	}
	if !slices.Contains(ValidFormats, o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	if !slices.Contains(i18n.Languages(), o.Language) {
		return NewExitError(ExitCommandError, fmt.Sprintf("unsupported language %q: must be one of %v", o.Language, i18n.Languages()))
	}
	i18n.SetLanguage(o.Language)
	gomodel.SetLogger(newLogger(cmd.ErrOrStderr(), o.Verbose))
	slog.Debug("configuration resolved", "config", v.ConfigFileUsed(), "format", o.Format, "lang", o.Language)
	return nil
}

// NewVersionCommand prints the build version.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gomodel version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			if opts.Format == "json" {
				return out.JSON(map[string]string{"version": Version})
			}
			return out.Line("gomodel %s", Version)
		},
	}
}
