// Package schema holds the single authoritative description of the
// transaction dump columns. Parsing, write-time validation and the query
// allow-list are all derived from the one table below so the three views
// cannot drift apart.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/momocard/settlement-service/internal/model"
)

// Kind classifies a column for coercion and validation.
type Kind int

const (
	KindKey     Kind = iota // DOC_IDT, the only required column
	KindString              // varchar(255)
	KindChar                // single-character flag
	KindText                // unbounded free text
	KindList                // semicolon-delimited token list
	KindInteger             // integer-coded value
	KindMoney               // fixed-point, 2 fractional digits
	KindRate                // fixed-point, 6 fractional digits
	KindDate                // dump date format, e.g. 31-Oct-24
)

const (
	maxVarchar = 255
	listSep    = ";"
)

// ListSeparator is the token separator of KindList columns.
const ListSeparator = listSep

// CoerceOptions carries the run configuration coercion depends on.
type CoerceOptions struct {
	DateFormat string
	// CloseDateDefault replaces an unparseable value in sentinel-defaulted
	// date columns. Every other column becomes absent on parse failure.
	CloseDateDefault time.Time
}

// Column describes one dump column and how it maps onto model.Transaction.
type Column struct {
	Name      string // header token in the dump
	DB        string // database column name
	Kind      Kind
	Required  bool
	Sentinel  bool // unparseable date becomes CloseDateDefault
	Queryable bool // exposed to the filter/sort allow-list

	str  func(*model.Transaction) **string
	i64  func(*model.Transaction) **int64
	dec  func(*model.Transaction) **decimal.Decimal
	date func(*model.Transaction) **time.Time
}

// Apply coerces one raw cell into its typed field. Unparseable numeric and
// date values leave the field absent rather than zeroed; only sentinel date
// columns fall back to the configured default.
func (c Column) Apply(t *model.Transaction, raw string, opts CoerceOptions) {
	raw = strings.TrimSpace(raw)
	switch c.Kind {
	case KindKey:
		t.DocIDT = raw
	case KindString, KindChar, KindText:
		v := raw
		*c.str(t) = &v
	case KindList:
		v := NormalizeList(raw)
		*c.str(t) = &v
	case KindInteger:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			*c.i64(t) = &n
		}
	case KindMoney:
		if d, err := decimal.NewFromString(raw); err == nil {
			d = d.Round(2)
			*c.dec(t) = &d
		}
	case KindRate:
		if d, err := decimal.NewFromString(raw); err == nil {
			d = d.Round(6)
			*c.dec(t) = &d
		}
	case KindDate:
		if ts, err := time.Parse(opts.DateFormat, raw); err == nil {
			*c.date(t) = &ts
		} else if c.Sentinel {
			def := opts.CloseDateDefault
			*c.date(t) = &def
		}
	}
}

// NormalizeList splits a raw condition list on ";", trims the tokens and
// re-serializes them. Round-trips losslessly as long as no token contains
// the separator itself.
func NormalizeList(raw string) string {
	parts := strings.Split(raw, listSep)
	tokens := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return strings.Join(tokens, listSep)
}

// Validate checks a normalized record against the schema. Coercion already
// guarantees the typed fields, so what is left is the required key and the
// declared string widths.
func Validate(t *model.Transaction) error {
	for _, c := range columns {
		switch c.Kind {
		case KindKey:
			if strings.TrimSpace(t.DocIDT) == "" {
				return fmt.Errorf("%s: value required", c.Name)
			}
			if len(t.DocIDT) > maxVarchar {
				return fmt.Errorf("%s: exceeds %d bytes", c.Name, maxVarchar)
			}
		case KindString:
			if v := *c.str(t); v != nil && len(*v) > maxVarchar {
				return fmt.Errorf("%s: exceeds %d bytes", c.Name, maxVarchar)
			}
		case KindChar:
			if v := *c.str(t); v != nil && utf8.RuneCountInString(*v) > 1 {
				return fmt.Errorf("%s: must be a single character", c.Name)
			}
		}
	}
	return nil
}

// Columns returns the schema table in dump order.
func Columns() []Column { return columns }

// Lookup resolves a cleaned header token to its column definition.
func Lookup(name string) (Column, bool) {
	c, ok := byName[name]
	return c, ok
}

// QueryColumn maps an allow-listed filter/sort token to its database column.
// Names outside the allow-list (unknown, or deliberately unqueryable like
// PAN) are rejected here, never resolved dynamically.
func QueryColumn(name string) (string, bool) {
	c, ok := byName[name]
	if !ok || !c.Queryable {
		return "", false
	}
	return c.DB, true
}

// QueryColumns returns the allow-listed column tokens in dump order.
func QueryColumns() []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if c.Queryable {
			out = append(out, c.Name)
		}
	}
	return out
}

var (
	columns []Column
	byName  map[string]Column
)

func init() {
	columns = buildColumns()
	byName = make(map[string]Column, len(columns))
	for _, c := range columns {
		byName[c.Name] = c
	}
}

func newCol(name string, kind Kind) Column {
	return Column{Name: name, DB: strings.ToLower(name), Kind: kind, Queryable: true}
}

func keyCol(name string) Column {
	c := newCol(name, KindKey)
	c.Required = true
	return c
}

func strCol(name string, acc func(*model.Transaction) **string) Column {
	c := newCol(name, KindString)
	c.str = acc
	return c
}

func charCol(name string, acc func(*model.Transaction) **string) Column {
	c := newCol(name, KindChar)
	c.str = acc
	return c
}

func textCol(name string, acc func(*model.Transaction) **string) Column {
	c := newCol(name, KindText)
	c.str = acc
	return c
}

func listCol(name string, acc func(*model.Transaction) **string) Column {
	c := newCol(name, KindList)
	c.str = acc
	return c
}

func intCol(name string, acc func(*model.Transaction) **int64) Column {
	c := newCol(name, KindInteger)
	c.i64 = acc
	return c
}

func moneyCol(name string, acc func(*model.Transaction) **decimal.Decimal) Column {
	c := newCol(name, KindMoney)
	c.dec = acc
	return c
}

func rateCol(name string, acc func(*model.Transaction) **decimal.Decimal) Column {
	c := newCol(name, KindRate)
	c.dec = acc
	return c
}

func dateCol(name string, acc func(*model.Transaction) **time.Time) Column {
	c := newCol(name, KindDate)
	c.date = acc
	return c
}

func sentinel(c Column) Column {
	c.Sentinel = true
	return c
}

// private drops a column from the query allow-list (card and contract
// numbers stay out of the read surface).
func private(c Column) Column {
	c.Queryable = false
	return c
}
