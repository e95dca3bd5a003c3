package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-llvmopt/llvmopt"
)

func newParseCmd(configPath *string) *cobra.Command {
	var (
		asJSON  bool
		render  bool
		withRSP bool
	)

	cmd := &cobra.Command{
		Use:   "parse <schema> [--] <args>...",
		Short: "Parse an argument vector against a schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(*configPath, args[0])
			if err != nil {
				return err
			}

			parser := llvmopt.NewParserWithOptions(table, llvmopt.ParseOptions{
				ExpandResponseFiles: withRSP,
			})
			result, err := parser.Parse(args[1:])
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				return writeJSON(cmd, table, result)
			case render:
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(result.Render(), " "))
				return nil
			default:
				writeRecords(cmd, table, result)
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the record stream as JSON")
	cmd.Flags().BoolVar(&render, "render", false, "print the canonical forwarding form")
	cmd.Flags().BoolVar(&withRSP, "rsp", false, "expand @file response files before matching")
	return cmd
}

func writeRecords(cmd *cobra.Command, table *llvmopt.Table, result *llvmopt.Result) {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for _, rec := range result.Parsed {
		opt := table.Option(rec.Option)
		green.Fprintf(out, "option  %-24s", opt.PrimarySpelling())
		fmt.Fprintf(out, " spelled %q", rec.Spelling)
		if len(rec.Values) > 0 {
			fmt.Fprintf(out, " values %q", rec.Values)
		}
		fmt.Fprintln(out)
	}
	for _, rec := range result.Incomplete {
		yellow.Fprintf(out, "partial %-24s missing %d value(s)\n", rec.Spelling, rec.Missing)
	}
	for _, rec := range result.Unmatched {
		switch rec.Kind {
		case llvmopt.UnmatchedInput:
			fmt.Fprintf(out, "input   %s\n", rec.Text)
		case llvmopt.UnmatchedUnsupported:
			red.Fprintf(out, "unsupported %s\n", rec.Text)
		default:
			red.Fprintf(out, "unknown %s", rec.Text)
			if near := table.Nearest(rec.Text, 2); near != "" {
				fmt.Fprintf(out, " (did you mean %s?)", near)
			}
			fmt.Fprintln(out)
		}
	}
}

// jsonRecord is the machine-readable shape of one record, flattened so
// consumers do not need to know the three-sequence split.
type jsonRecord struct {
	Class    string   `json:"class"`
	Option   string   `json:"option,omitempty"`
	Spelling string   `json:"spelling,omitempty"`
	Text     string   `json:"text,omitempty"`
	Values   []string `json:"values,omitempty"`
	Missing  int      `json:"missing,omitempty"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
}

func writeJSON(cmd *cobra.Command, table *llvmopt.Table, result *llvmopt.Result) error {
	records := make([]jsonRecord, 0,
		len(result.Parsed)+len(result.Unmatched)+len(result.Incomplete))

	for _, rec := range result.Parsed {
		records = append(records, jsonRecord{
			Class:    "parsed",
			Option:   table.Option(rec.Option).Name,
			Spelling: rec.Spelling,
			Values:   rec.Values,
			Start:    rec.Range.Start,
			End:      rec.Range.End,
		})
	}
	for _, rec := range result.Incomplete {
		records = append(records, jsonRecord{
			Class:    "incomplete",
			Option:   table.Option(rec.Option).Name,
			Spelling: rec.Spelling,
			Values:   rec.Values,
			Missing:  rec.Missing,
			Start:    rec.Range.Start,
			End:      rec.Range.End,
		})
	}
	for _, rec := range result.Unmatched {
		jr := jsonRecord{
			Class: rec.Kind.String(),
			Text:  rec.Text,
			Start: rec.Range.Start,
			End:   rec.Range.End,
		}
		if rec.Option != llvmopt.NoOption {
			jr.Option = table.Option(rec.Option).Name
		}
		records = append(records, jr)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
