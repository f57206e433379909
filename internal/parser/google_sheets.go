package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Beka01247/food-ordering/internal/domain"
)

const DefaultReadRange = "A:E"

// MenuRow is a menu item read from a spreadsheet, with its 1-based sheet row
// so rejections can point back at the source.
type MenuRow struct {
	Row  int
	Item domain.MenuItem
}

type GoogleSheetsParser struct {
	service *sheets.Service
}

type Config struct {
	CredentialsJSON []byte
}

func New(ctx context.Context, cfg Config) (*GoogleSheetsParser, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSheetsParser{
		service: service,
	}, nil
}

func (p *GoogleSheetsParser) ReadMenuItems(ctx context.Context, spreadsheetID, readRange string) ([]MenuRow, error) {
	if readRange == "" {
		readRange = DefaultReadRange
	}

	resp, err := p.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("no data found in spreadsheet")
	}

	return ParseMenuRows(resp.Values), nil
}

// ParseMenuRows reads the sheet layout
//
//	Name | Price | Description | Image | Category
//
// The first row is a header. A row with only its first cell filled starts a
// category section; items below it take that category unless column E says
// otherwise. Fields are copied as-is and validated later by the catalog.
func ParseMenuRows(values [][]interface{}) []MenuRow {
	var rows []MenuRow
	var currentCategory domain.Category

	// skip header
	for i := 1; i < len(values); i++ {
		row := values[i]
		if isBlank(row) {
			continue
		}

		// category row
		if cell(row, 0) != "" && cell(row, 1) == "" && cell(row, 2) == "" {
			currentCategory = domain.Category(strings.ToLower(cell(row, 0)))
			continue
		}

		item := domain.MenuItem{
			Name:        cell(row, 0),
			Price:       parsePrice(cell(row, 1)),
			Description: cell(row, 2),
			Image:       cell(row, 3),
			Category:    currentCategory,
		}
		if c := cell(row, 4); c != "" {
			item.Category = domain.Category(strings.ToLower(c))
		}

		rows = append(rows, MenuRow{Row: i + 1, Item: item})
	}

	return rows
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}

func isBlank(row []interface{}) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

// parsePrice accepts "65000", "65.000", "65,000 đ" and similar. Unparseable
// prices come back as 0 and fail validation.
func parsePrice(s string) int64 {
	s = strings.ToLower(s)
	s = strings.NewReplacer(".", "", ",", "", " ", "", "đ", "", "vnd", "", "₫", "").Replace(s)
	price, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return price
}
