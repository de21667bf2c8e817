package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// RowStore is the surface the repository builds on. The store offers no
// query language, no transactions and no secondary indices; callers scan
// column spans and address cells individually.
type RowStore interface {
	// Header returns the header row (row 1) as an ordered list of column
	// names. A missing or empty header is a SchemaError.
	Header(ctx context.Context) ([]string, error)
	// ReadRows returns every data row (rows 2 and below) restricted to the
	// span's columns. Rows may be shorter than the span; absent trailing
	// cells read as empty strings.
	ReadRows(ctx context.Context, span Span) ([][]string, error)
	// ReadRow returns a single row (1-based index) restricted to the span.
	ReadRow(ctx context.Context, rowIndex int, span Span) ([]string, error)
	// WriteCells issues one write instruction per cell in a single batch.
	WriteCells(ctx context.Context, cells []Cell) error
	// AppendRow inserts a row at the end, values in full header order.
	AppendRow(ctx context.Context, values []string) error
}

// Client talks to the Google Sheets API and implements RowStore.
type Client struct {
	svc           *sheetsv4.Service
	spreadsheetID string
	sheetName     string
}

// NewClient builds a Sheets client from a service account key.
func NewClient(ctx context.Context, credentialsJSON []byte, spreadsheetID, sheetName string) (*Client, error) {
	svc, err := sheetsv4.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func (c *Client) Header(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!1:1", c.sheetName)
	res, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, &RowStoreError{Op: "read header", Err: err}
	}
	if len(res.Values) == 0 || len(res.Values[0]) == 0 {
		return nil, &SchemaError{Msg: "sheet header row is missing"}
	}
	return toStringRow(res.Values[0]), nil
}

func (c *Client) ReadRows(ctx context.Context, span Span) ([][]string, error) {
	rng := fmt.Sprintf("%s!%s2:%s", c.sheetName, ColumnLetter(span.Start), ColumnLetter(span.End))
	res, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, &RowStoreError{Op: "read rows", Err: err}
	}
	rows := make([][]string, len(res.Values))
	for i, row := range res.Values {
		rows[i] = toStringRow(row)
	}
	return rows, nil
}

func (c *Client) ReadRow(ctx context.Context, rowIndex int, span Span) ([]string, error) {
	rng := fmt.Sprintf("%s!%s%d:%s%d",
		c.sheetName, ColumnLetter(span.Start), rowIndex, ColumnLetter(span.End), rowIndex)
	res, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, &RowStoreError{Op: "read row", Err: err}
	}
	if len(res.Values) == 0 {
		return nil, nil
	}
	return toStringRow(res.Values[0]), nil
}

func (c *Client) WriteCells(ctx context.Context, cells []Cell) error {
	if len(cells) == 0 {
		return nil
	}
	data := make([]*sheetsv4.ValueRange, 0, len(cells))
	for _, cell := range cells {
		col := ColumnLetter(cell.Col)
		data = append(data, &sheetsv4.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d:%s%d", c.sheetName, col, cell.Row, col, cell.Row),
			Values: [][]interface{}{{cell.Value}},
		})
	}
	req := &sheetsv4.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	if _, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return &RowStoreError{Op: "write cells", Err: err}
	}
	return nil
}

func (c *Client) AppendRow(ctx context.Context, values []string) error {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, fmt.Sprintf("%s!A1", c.sheetName), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return &RowStoreError{Op: "append row", Err: err}
	}
	return nil
}

func toStringRow(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			out[i] = s
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}
