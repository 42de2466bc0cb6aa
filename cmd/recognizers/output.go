package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/plugin/recognizer"
	"github.com/hrygo/recognizers/plugin/recognizer/model"
	"github.com/hrygo/recognizers/server/timezone"
	"github.com/hrygo/recognizers/store"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func validateOutput(format string) error {
	if format != outputText && format != outputJSON {
		return errors.Errorf("invalid output format %q, want %s or %s", format, outputText, outputJSON)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printOutcomes(w io.Writer, format string, outcomes []model.ParseOutcome) error {
	if format == outputJSON {
		if outcomes == nil {
			outcomes = []model.ParseOutcome{}
		}
		return writeJSON(w, outcomes)
	}
	if len(outcomes) == 0 {
		_, err := fmt.Fprintln(w, "no expressions recognized")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tTEXT\tCATEGORY\tTIMEX\tVALUE")
	for _, o := range outcomes {
		value := "-"
		if o.Resolved() {
			value = model.FormatNumber(o.Value.FutureValue)
			if mod := o.Value.FutureResolution[model.ResolutionMod]; mod != "" {
				value += " (" + mod + ")"
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", o.Start, o.Text, o.Category, o.TimexStr, value)
	}
	return tw.Flush()
}

func printRecognitions(w io.Writer, format string, list []*store.Recognition, loc *time.Location) error {
	if format == outputJSON {
		if list == nil {
			list = []*store.Recognition{}
		}
		return writeJSON(w, list)
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "no recognitions")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tCULTURE\tCATEGORY\tTEXT\tTIMEX")
	for _, r := range list {
		created := timezone.FromUnix(r.CreatedTs, loc).Format(time.RFC3339)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", created, r.Culture, r.Category, r.Text, r.Timex)
	}
	return tw.Flush()
}

func printCultures(w io.Writer, format string, infos []recognizer.CultureInfo) error {
	if format == outputJSON {
		return writeJSON(w, infos)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tDEFAULT")
	for _, info := range infos {
		def := ""
		if info.Default {
			def = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Code, info.Name, def)
	}
	return tw.Flush()
}
