// Package tsv implements the delimited-table loader for the movie corpus.
// Every source table is delimiter-separated text with a column set that is
// either declared by a header row or supplied by the caller; the parser
// produces a positionally indexed Table with no type coercion beyond what the
// delimited format implies.
//
// Unlike a streaming ingest parser, this loader is strict: the sources are
// static local datasets, so an unreadable file, a column-name override that
// does not match the actual width, or a ragged row is a fatal error for the
// whole load. There are no retries and no partial results.
package tsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Options configures a Parser. Zero values give a comma-separated file with
// no header.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// HasHeader indicates whether the first row declares column names.
	HasHeader bool

	// Names overrides the column names. When set and HasHeader is true, the
	// header row is consumed and discarded; its width must match len(Names).
	Names []string

	// TrimSpace trims leading/trailing spaces from every field value.
	TrimSpace bool

	// LazyQuotes tolerates bare quotes inside fields, which plot summaries
	// and character names need.
	LazyQuotes bool
}

// Table is a parsed row-set with a fixed column schema.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// Index returns the position of the named column, or -1 when absent.
// Downstream code treats -1 as "column not present in this source".
func (t *Table) Index(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Field returns the named column's value for row, with the empty string for
// absent columns. Empty cells stay empty; typed conversion is the caller's
// concern.
func (t *Table) Field(row []string, name string) string {
	i := t.Index(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Parser parses delimited input according to Options. A Parser is reusable
// across inputs but not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// Parse consumes all records from r and returns the resulting Table.
//
// Column resolution order: Options.Names when provided, otherwise the header
// row, otherwise synthesized "col_N" names sized to the first record. A
// mismatch between len(Names) and the actual width is an error, as is any
// row whose width differs from the schema width.
func (p *Parser) Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ','
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = p.opt.LazyQuotes
	// Width enforcement happens below once the schema width is known; the
	// reader itself must tolerate the header/first-row bootstrap.
	cr.FieldsPerRecord = -1

	var columns []string

	if p.opt.HasHeader {
		h, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		if p.opt.Names != nil {
			if len(p.opt.Names) != len(h) {
				return nil, fmt.Errorf("column names: %d supplied, source has %d columns", len(p.opt.Names), len(h))
			}
			columns = append([]string(nil), p.opt.Names...)
		} else {
			columns = normalizeHeader(h)
		}
	} else if p.opt.Names != nil {
		columns = append([]string(nil), p.opt.Names...)
	}

	t := &Table{Columns: columns}

	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if t.Columns == nil {
			// Headerless file without a name override: synthesize names from
			// the first record's width.
			t.Columns = make([]string, len(row))
			for i := range t.Columns {
				t.Columns[i] = fmt.Sprintf("col_%d", i)
			}
		}
		if len(row) != len(t.Columns) {
			return nil, fmt.Errorf("row %d: %d fields, schema has %d columns", line, len(row), len(t.Columns))
		}
		rec := make([]string, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[i] = val
		}
		t.Rows = append(t.Rows, rec)
	}

	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
	return t, nil
}

// normalizeHeader produces canonical column keys from a header row: BOM
// stripped from the first cell, NFC-normalized, trimmed, lowercased, spaces
// to underscores.
func normalizeHeader(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		c = norm.NFC.String(c)
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}
