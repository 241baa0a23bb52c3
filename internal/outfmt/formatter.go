package outfmt

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
)

// Formatter handles output formatting for commands.
type Formatter struct {
	ctx       context.Context
	out       io.Writer
	errOut    io.Writer
	tabWriter *tabwriter.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{
		ctx:       ctx,
		out:       out,
		errOut:    errOut,
		tabWriter: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Output writes data as JSON, or through --template, when a structured mode
// is active. Text mode is left to the caller's table.
func (f *Formatter) Output(data any) error {
	if !IsJSON(f.ctx) {
		return nil
	}
	query := GetQuery(f.ctx)
	if tmpl := GetTemplate(f.ctx); tmpl != "" {
		filtered, err := ApplyQuery(data, query)
		if err != nil {
			return err
		}
		return WriteTemplate(f.out, filtered, tmpl)
	}
	return WriteJSONFiltered(f.out, data, query, IsCompact(f.ctx))
}

// OutputList writes list results. JSON mode wraps them in {"items","meta"};
// JSONL writes one compact item per line with the jq query applied to each.
func (f *Formatter) OutputList(items any, meta *ListMeta) error {
	if IsJSONL(f.ctx) && GetTemplate(f.ctx) == "" {
		query := GetQuery(f.ctx)
		for _, item := range listItems(items) {
			v, err := ApplyQuery(item, query)
			if err != nil {
				return err
			}
			if err := WriteJSONMaybeCompact(f.out, v, true); err != nil {
				return err
			}
		}
		return nil
	}
	return f.Output(NewList(items, meta))
}

// StartTable writes table headers. Returns true if in text mode.
func (f *Formatter) StartTable(headers []string) bool {
	if IsJSON(f.ctx) {
		return false
	}
	f.Row(headers...)
	return true
}

// Row writes a single row to the table.
func (f *Formatter) Row(columns ...string) {
	for i, col := range columns {
		if i > 0 {
			_, _ = fmt.Fprint(f.tabWriter, "\t")
		}
		_, _ = fmt.Fprint(f.tabWriter, col)
	}
	_, _ = fmt.Fprintln(f.tabWriter)
}

// EndTable flushes the table output.
func (f *Formatter) EndTable() error {
	return f.tabWriter.Flush()
}

// Empty writes a message to stderr indicating no results.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}
