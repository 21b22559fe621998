package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvimport/internal/core"
)

type inspectOptions struct {
	header     string
	sep        string
	encoding   string
	sampleRows int
	colNames   []string
	preview    bool
}

func newInspectCmd(root *rootOptions) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Resolve the header of a file and count its data rows",
		Long: `Inspect reads FILE, decides whether row 0 is a header and prints the
resulting column names with the number of data rows. With --preview only
the leading sample is read and its data rows are printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := root.newService()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			req := core.ImportRequest{
				FileName:    filepath.Base(args[0]),
				Source:      f,
				Delimiter:   opts.sep,
				Encoding:    opts.encoding,
				SampleRows:  opts.sampleRows,
				ColumnNames: opts.colNames,
			}
			if info, err := f.Stat(); err == nil {
				req.Size = info.Size()
			}
			if cmd.Flags().Changed("header") {
				req.Header = opts.header
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if opts.preview {
				p, err := svc.Preview(ctx, req)
				if err != nil {
					return err
				}
				if root.asJSON {
					return writeJSON(out, p)
				}
				fmt.Fprintf(out, "file:        %s\n", p.FileName)
				fmt.Fprintf(out, "mode:        %s\n", p.Mode)
				fmt.Fprintf(out, "disposition: %s\n", p.Disposition)
				fmt.Fprintf(out, "columns:     %s\n", strings.Join(p.Columns, ", "))
				for _, row := range p.Rows {
					fmt.Fprintf(out, "  %s\n", strings.Join(row, " | "))
				}
				return nil
			}

			res, err := svc.Import(ctx, req)
			if err != nil {
				return err
			}
			if root.asJSON {
				return writeJSON(out, res)
			}
			fmt.Fprintf(out, "file:        %s\n", res.FileName)
			fmt.Fprintf(out, "mode:        %s\n", res.Mode)
			fmt.Fprintf(out, "disposition: %s\n", res.Disposition)
			fmt.Fprintf(out, "columns:     %s\n", strings.Join(res.Columns, ", "))
			fmt.Fprintf(out, "nrow:        %d\n", res.NRow)
			fmt.Fprintf(out, "ncol:        %d\n", res.NCol)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.header, "header", "", "Header option: 1, 0, -1 or header|auto|data")
	cmd.Flags().StringVar(&opts.sep, "sep", "", `Field delimiter (default from config, "tab" for tabs)`)
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Source encoding: utf-8, latin1 or windows-1252")
	cmd.Flags().IntVar(&opts.sampleRows, "sample-rows", 0, "Rows inspected for header detection (default from config)")
	cmd.Flags().StringSliceVar(&opts.colNames, "col-names", nil, "Column names replacing the detected ones")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "Read only the leading sample")
	return cmd
}
