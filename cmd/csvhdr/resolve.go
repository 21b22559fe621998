package main

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvimport/internal/core"
)

func newResolveCmd(root *rootOptions) *cobra.Command {
	var (
		headerOpt string
		sep       string
	)

	cmd := &cobra.Command{
		Use:   "resolve ROW...",
		Short: "Resolve a header option against rows given on the command line",
		Long: `Resolve treats each ROW argument as one delimited line and reports the
header decision for them, without reading a file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := root.newService()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("sep") {
				sep = svc.Config().Delimiter
			}
			comma, err := core.ParseDelimiter(sep)
			if err != nil {
				return err
			}
			rows, err := splitRows(args, comma)
			if err != nil {
				return err
			}

			var raw any
			if cmd.Flags().Changed("header") {
				raw = headerOpt
			}
			res, err := svc.ResolveSample(raw, rows)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if root.asJSON {
				return writeJSON(out, res)
			}
			fmt.Fprintf(out, "mode:        %s\n", res.Mode)
			fmt.Fprintf(out, "disposition: %s\n", res.Disposition)
			if len(res.Columns) > 0 {
				fmt.Fprintf(out, "columns:     %s\n", strings.Join(res.Columns, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&headerOpt, "header", "", "Header option: 1, 0, -1 or header|auto|data")
	cmd.Flags().StringVar(&sep, "sep", ",", "Field delimiter")
	return cmd
}

// splitRows parses each argument as a single delimited record.
func splitRows(args []string, comma rune) ([][]string, error) {
	rows := make([][]string, 0, len(args))
	for _, arg := range args {
		r := csv.NewReader(strings.NewReader(arg))
		r.Comma = comma
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		rec, err := r.Read()
		if err != nil {
			return nil, fmt.Errorf("%w: row %q: %v", core.ErrInvalidCSV, arg, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
