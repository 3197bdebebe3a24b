package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/momocard/settlement-service/internal/model"
	"github.com/momocard/settlement-service/internal/schema"
)

// Parser turns the staged delimited dump into normalized records. One bad
// cell never aborts a file; a file that cannot be opened or whose header
// cannot be read aborts the run.
type Parser struct {
	delimiter rune
	opts      schema.CoerceOptions
	log       *zap.SugaredLogger
}

func NewParser(delimiter rune, opts schema.CoerceOptions, logger *zap.SugaredLogger) *Parser {
	return &Parser{delimiter: delimiter, opts: opts, log: logger}
}

// ParseReport is what one file yielded.
type ParseReport struct {
	Records   []*model.Transaction
	Dropped   int // rows admitted-checked out: no document id
	Malformed int // rows the reader could not split at all
}

// ParseFile reads the whole dump. Rows lacking a non-empty DOC_IDT are
// dropped and counted, not silently discarded.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ParseReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.Comma = p.delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := p.mapHeader(header)

	report := &ParseReport{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			report.Malformed++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rec := &model.Transaction{}
		for i, col := range cols {
			if col == nil || i >= len(row) {
				continue
			}
			col.Apply(rec, row[i], p.opts)
		}
		if strings.TrimSpace(rec.DocIDT) == "" {
			report.Dropped++
			continue
		}
		report.Records = append(report.Records, rec)
	}

	if report.Dropped > 0 || report.Malformed > 0 {
		p.log.Warnw("rows rejected while parsing dump",
			"path", path, "dropped", report.Dropped, "malformed", report.Malformed)
	}
	return report, nil
}

// mapHeader cleans the header tokens and resolves each position to its
// schema column; unknown positions stay nil and are skipped per row.
func (p *Parser) mapHeader(header []string) []*schema.Column {
	cols := make([]*schema.Column, len(header))
	for i, h := range header {
		name := cleanHeader(h)
		if col, ok := schema.Lookup(name); ok {
			c := col
			cols[i] = &c
		} else if name != "" {
			p.log.Debugw("ignoring unknown dump column", "name", name)
		}
	}
	return cols
}

// cleanHeader strips whitespace and the trailing separator artifacts the
// exporter leaves on the last column.
func cleanHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimRight(h, ",")
	return strings.TrimSpace(h)
}
