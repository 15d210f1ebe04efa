package inventory

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Scope is the read-only spreadsheet scope.
const Scope = sheets.SpreadsheetsReadonlyScope

// SheetsBackend implements Backend with the Google Sheets v4 API.
type SheetsBackend struct {
	svc *sheets.Service
}

// NewSheetsBackend creates a Sheets client from the given client options.
func NewSheetsBackend(ctx context.Context, opts ...option.ClientOption) (*SheetsBackend, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("inventory: failed to create sheets service: %w", err)
	}
	return &SheetsBackend{svc: svc}, nil
}

// GetRange reads formatted cell values, row-major, as strings.
func (b *SheetsBackend) GetRange(ctx context.Context, sheetID, rng string) ([][]string, error) {
	resp, err := b.svc.Spreadsheets.Values.Get(sheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("inventory: get values: %w", err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			if v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
