package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/source"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

var errCheckFailed = errors.New("validation failed")

type checkOptions struct {
	lenient       bool
	entryIDs      []string
	format        string
	failOnWarning bool
}

// CheckReport is the machine-readable result of a check.
type CheckReport struct {
	File     string           `json:"file"`
	Valid    bool             `json:"valid"`
	Loaded   int              `json:"loaded"`
	Error    string           `json:"error,omitempty"`
	Kind     string           `json:"kind,omitempty"`
	Skipped  []string         `json:"skipped,omitempty"`
	Errors   []scenario.Issue `json:"errors,omitempty"`
	Warnings []scenario.Issue `json:"warnings,omitempty"`
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Load a scenario file and lint its graph",
		Long: `Check loads a JSON or YAML scenario file the same way the simulator does,
then lints the scenario graph:

- next_id references that do not resolve (error)
- entry ids missing from the file (error)
- scenarios unreachable from every entry id (warning)
- scenarios without exactly one correct choice (warning)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "Skip invalid scenarios instead of failing the load")
	cmd.Flags().StringSliceVar(&opts.entryIDs, "entry", []string{"1", "4"}, "Entry scenario ids")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.failOnWarning, "fail-on-warning", false, "Treat lint warnings as errors")

	return cmd
}

func runCheck(w io.Writer, path string, opts checkOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unsupported format %q (text, json)", opts.format)
	}

	report := check(path, opts)
	if opts.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		writeText(w, report)
	}

	if !report.Valid {
		return errCheckFailed
	}
	return nil
}

func check(path string, opts checkOptions) CheckReport {
	report := CheckReport{File: path}

	store, loadReport, err := source.LoadStore(path, scenario.LoadOptions{Lenient: opts.lenient})
	if err != nil {
		report.Error = err.Error()
		report.Kind = string(scenario.KindOf(err))
		return report
	}
	report.Loaded = store.Len()
	for _, skipped := range loadReport.Skipped {
		report.Skipped = append(report.Skipped, skipped.Error())
	}

	for _, issue := range scenario.Lint(store, opts.entryIDs) {
		switch issue.Type {
		case scenario.IssueDanglingNext, scenario.IssueUnknownEntry:
			report.Errors = append(report.Errors, issue)
		default:
			if opts.failOnWarning {
				report.Errors = append(report.Errors, issue)
			} else {
				report.Warnings = append(report.Warnings, issue)
			}
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}

func writeText(w io.Writer, r CheckReport) {
	fmt.Fprintf(w, "Validating %s...\n", r.File)
	if r.Error != "" {
		fmt.Fprintf(w, "  load failed (%s): %s\n", r.Kind, r.Error)
		return
	}
	fmt.Fprintf(w, "  loaded %d scenarios\n", r.Loaded)
	for _, s := range r.Skipped {
		fmt.Fprintf(w, "  skipped: %s\n", s)
	}
	for _, issue := range r.Errors {
		fmt.Fprintf(w, "  error: %s\n", issue)
	}
	for _, issue := range r.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", issue)
	}
	if r.Valid {
		fmt.Fprintln(w, "Scenario file is valid!")
	} else {
		fmt.Fprintf(w, "Found %d %s\n", len(r.Errors), plural(len(r.Errors), "error"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

