// Package sheets is a thin wrapper over the Google Sheets v4 values API
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultTab is used when a caller names no tab
const DefaultTab = "Sheet1"

type Client struct {
	service *sheets.Service
}

type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption

	switch {
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	default:
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{service: service}, nil
}

// TabRange returns an A1 range covering columns A to Z of tab from row
func TabRange(tab string, row int) string {
	if tab == "" {
		tab = DefaultTab
	}
	return fmt.Sprintf("'%s'!A%d:Z", tab, row)
}

// Append adds rows after the last non-empty row of the range
func (c *Client) Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) (int, error) {
	if c.service == nil {
		return 0, fmt.Errorf("sheets: service is nil")
	}

	resp, err := c.service.Spreadsheets.Values.Append(spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: append: %w", err)
	}
	if resp.Updates == nil {
		return 0, nil
	}
	return int(resp.Updates.UpdatedRows), nil
}

// Replace clears the range and writes rows from its first cell
func (c *Client) Replace(ctx context.Context, spreadsheetID, rng string, rows [][]any) (int, error) {
	if c.service == nil {
		return 0, fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: clear: %w", err)
	}

	resp, err := c.service.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: update: %w", err)
	}
	return int(resp.UpdatedRows), nil
}
