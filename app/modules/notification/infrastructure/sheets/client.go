// Package notificationsheets mirrors registrations into a Google spreadsheet.
package notificationsheets

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// valueAppender is the slice of the Sheets API the client uses.
type valueAppender interface {
	Append(ctx context.Context, spreadsheetID, rangeA1 string, rows [][]any) error
}

type sheetsAPI struct {
	srv *sheetsv4.Service
}

func (a sheetsAPI) Append(ctx context.Context, spreadsheetID, rangeA1 string, rows [][]any) error {
	vr := &sheetsv4.ValueRange{Values: rows}
	_, err := a.srv.Spreadsheets.Values.Append(spreadsheetID, rangeA1, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// Client appends rows to one spreadsheet.
type Client struct {
	api           valueAppender
	spreadsheetID string
}

// New authenticates with a service-account JSON file.
func New(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("service account json: %w", err)
	}
	srv, err := sheetsv4.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{api: sheetsAPI{srv: srv}, spreadsheetID: spreadsheetID}, nil
}

// AppendRow adds row below the last filled row of sheet.
func (c *Client) AppendRow(ctx context.Context, sheet string, row []any) error {
	if err := c.api.Append(ctx, c.spreadsheetID, sheet+"!A:Z", [][]any{row}); err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	return nil
}
