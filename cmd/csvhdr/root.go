package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvimport/internal/config"
	"github.com/JonMunkholm/csvimport/internal/core"
	"github.com/JonMunkholm/csvimport/internal/store"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	lookup  config.LookupFunc
	profile string
	asJSON  bool
}

func newRootCmd(lookup config.LookupFunc) *cobra.Command {
	opts := &rootOptions{lookup: lookup}

	cmd := &cobra.Command{
		Use:   "csvhdr",
		Short: "Decide whether the first row of a delimited file is a header",
		Long: `csvhdr reads delimited text and reports whether row 0 holds column
names or data.

The header option follows the import API:
   1   row 0 is a header
   0   detect from the leading rows
  -1   row 0 is data
Leaving it unset uses IMPORT_DEFAULT_HEADER or the profile, and detects
when neither sets it.

Examples:
  csvhdr inspect sales.csv
  csvhdr inspect --header -1 --sep ';' export.txt
  csvhdr resolve --header 0 'id,name' '1,alice'`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.profile, "profile", "p", "", "YAML import profile overlaying the environment defaults")
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")

	cmd.AddCommand(newInspectCmd(opts))
	cmd.AddCommand(newResolveCmd(opts))
	return cmd
}

// importConfig reads the environment defaults and applies the profile.
func (o *rootOptions) importConfig() (config.ImportConfig, error) {
	cfg, err := config.LoadFrom(o.lookup)
	if err != nil {
		return config.ImportConfig{}, err
	}
	if o.profile == "" {
		return cfg.Import, nil
	}
	return config.LoadProfile(o.profile, cfg.Import)
}

// newService builds an import service over an in-memory store. The CLI only
// reports on files, so rows are never kept.
func (o *rootOptions) newService() (*core.Service, error) {
	cfg, err := o.importConfig()
	if err != nil {
		return nil, err
	}
	cfg.PersistRows = false
	return core.NewService(store.NewMemory(), cfg)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
