// Package dict loads schema snapshots from HTML data dictionaries.
//
// Many teams publish their warehouse documentation as an HTML page with one
// row per column (name in one cell, declared type in another). dict turns
// such a page into an annotate.Table so the classification sweep can run
// against documentation alone, without a live database connection.
//
// Extraction is resilient by design: rows with no usable column name are
// skipped, and unknown declared types degrade to the conservative "text"
// storage type rather than failing the load.
package dict

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"metascan/internal/annotate"
)

// Options control how a dictionary page is interpreted.
type Options struct {
	// TableName names the resulting table. Required.
	TableName string

	// DataSourceID is carried into the snapshot for the engine-kind
	// fallback. Optional.
	DataSourceID string

	// RowSelector matches one element per column row.
	// Defaults to "table tr".
	RowSelector string

	// NameSelector matches the cell holding the column name, relative to a
	// row. Defaults to "td:nth-child(1)".
	NameSelector string

	// TypeSelector matches the cell holding the declared type, relative to
	// a row. Defaults to "td:nth-child(2)".
	TypeSelector string
}

func (o Options) withDefaults() Options {
	if o.RowSelector == "" {
		o.RowSelector = "table tr"
	}
	if o.NameSelector == "" {
		o.NameSelector = "td:nth-child(1)"
	}
	if o.TypeSelector == "" {
		o.TypeSelector = "td:nth-child(2)"
	}
	return o
}

// Load reads an HTML dictionary file and parses it. See Parse.
func Load(path string, opts Options) (annotate.Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return annotate.Table{}, fmt.Errorf("read dictionary file: %w", err)
	}
	return Parse(string(b), opts)
}

// Parse extracts one annotate.Table from an HTML dictionary page.
//
// Semantics:
//   - Each RowSelector match contributes at most one field.
//   - Rows whose NameSelector yields no text are skipped (header rows using
//     <th> cells fall out naturally because the default selectors only
//     match <td>).
//   - Declared types are folded to storage types via StorageTypeFromDeclared.
//
// Errors:
//   - Options.TableName is required.
//   - Unparseable HTML is an error; a page with zero extractable rows is an
//     error too, since classifying an empty table is never what the caller
//     meant.
func Parse(html string, opts Options) (annotate.Table, error) {
	opts = opts.withDefaults()
	if strings.TrimSpace(opts.TableName) == "" {
		return annotate.Table{}, fmt.Errorf("dict: table name is required")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return annotate.Table{}, fmt.Errorf("parse html: %w", err)
	}

	table := annotate.Table{
		Name:         opts.TableName,
		DataSourceID: opts.DataSourceID,
	}

	doc.Find(opts.RowSelector).Each(func(_ int, row *goquery.Selection) {
		name := strings.TrimSpace(row.Find(opts.NameSelector).First().Text())
		if name == "" {
			return
		}
		declared := strings.TrimSpace(row.Find(opts.TypeSelector).First().Text())
		table.Fields = append(table.Fields, annotate.Field{
			Name:        name,
			StorageType: StorageTypeFromDeclared(declared),
		})
	})

	if len(table.Fields) == 0 {
		return annotate.Table{}, fmt.Errorf("dict: no column rows matched %q", opts.RowSelector)
	}
	return table, nil
}
