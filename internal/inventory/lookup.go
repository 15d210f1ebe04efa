// Package inventory answers "is this medication in stock?" from a spreadsheet.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wolfman30/botica-chatbot/internal/textnorm"
	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

// Backend fetches a rectangular range of cells.
type Backend interface {
	GetRange(ctx context.Context, sheetID, rng string) ([][]string, error)
}

// Medication is a catalogue row.
type Medication struct {
	Name                 string
	StockCount           int
	InStock              bool
	RequiresPrescription bool
}

// Columns locates the fields inside a row, zero-based.
type Columns struct {
	Name         int
	Stock        int
	Prescription int
}

// DefaultColumns is the sheet layout: name, stock, prescription flag.
var DefaultColumns = Columns{Name: 0, Stock: 1, Prescription: 2}

// Lookup searches the inventory sheet.
type Lookup struct {
	backend Backend
	sheetID string
	rng     string
	cols    Columns
	logger  *logging.Logger
}

// NewLookup creates a lookup over sheetID!rng using DefaultColumns.
func NewLookup(backend Backend, sheetID, rng string, logger *logging.Logger) *Lookup {
	if logger == nil {
		logger = logging.Default()
	}
	return &Lookup{backend: backend, sheetID: sheetID, rng: rng, cols: DefaultColumns, logger: logger}
}

// WithColumns returns a copy of l reading a different column layout.
func (l *Lookup) WithColumns(cols Columns) *Lookup {
	cp := *l
	cp.cols = cols
	return &cp
}

// Find fetches the whole range, skips the header row and returns the first row
// whose name contains the query or is contained by it, ignoring case and
// accents. It returns nil, nil when nothing matches.
func (l *Lookup) Find(ctx context.Context, query string) (*Medication, error) {
	if l.backend == nil {
		return nil, errors.New("inventory: backend not configured")
	}
	q := textnorm.Normalize(query)
	if q == "" {
		return nil, nil
	}

	rows, err := l.backend.GetRange(ctx, l.sheetID, l.rng)
	if err != nil {
		return nil, fmt.Errorf("inventory: failed to read %s: %w", l.rng, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, l.cols.Name))
		n := textnorm.Normalize(name)
		if n == "" {
			continue
		}
		if strings.Contains(q, n) || strings.Contains(n, q) {
			med := parseRow(name, row, l.cols)
			l.logger.Debug("inventory: match", "query", query, "name", med.Name, "stock", med.StockCount)
			return med, nil
		}
	}
	return nil, nil
}

func parseRow(name string, row []string, cols Columns) *Medication {
	stock, err := strconv.Atoi(strings.TrimSpace(cell(row, cols.Stock)))
	if err != nil || stock < 0 {
		stock = 0
	}
	flag := textnorm.Normalize(cell(row, cols.Prescription))
	return &Medication{
		Name:                 name,
		StockCount:           stock,
		InStock:              stock > 0,
		RequiresPrescription: flag == "si",
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
