package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"ops-console/internal/console"
	"ops-console/internal/reconcile"
	"ops-console/internal/render"
)

func printTable(w io.Writer, t render.Table) {
	if t.IsEmpty() {
		fmt.Fprintln(w, t.Empty)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// printOutcome writes the inline message and any field errors. It returns
// errOutcome for anything but success so the exit code reflects it.
func printOutcome(w io.Writer, out reconcile.Outcome) error {
	fmt.Fprintln(w, out.Message)
	for _, f := range out.Fields {
		if f.Message != out.Message {
			fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Message)
		}
	}

	if t, ok := out.Data.(render.Table); ok {
		printTable(w, t)
	}
	if qr, ok := out.Data.(map[string]string); ok && qr["qr_data"] != "" {
		fmt.Fprintln(w, qr["qr_data"])
	}

	if !out.OK() {
		return errOutcome
	}
	return nil
}

func printSnapshot(w io.Writer, snap console.Snapshot) error {
	if !snap.Outcome.OK() {
		return printOutcome(w, snap.Outcome)
	}

	if d := snap.Dashboard; d != nil {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, c := range d.Cards {
			fmt.Fprintf(tw, "%s\t%s\n", c.Title, c.Value)
		}
		_ = tw.Flush()
		fmt.Fprintln(w)
		printTable(w, d.ByStatus)
		return nil
	}

	printTable(w, snap.Table)

	return nil
}
