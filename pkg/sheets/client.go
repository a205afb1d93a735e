package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client appends rows to Google spreadsheets
type Client struct {
	service *sheets.Service
}

// Config selects credentials. Endpoint, when set, points the client at a
// non-Google server and disables authentication.
type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
	Endpoint        string
}

// NewClient builds a Sheets API client
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption

	switch {
	case cfg.Endpoint != "":
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	default:
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{service: service}, nil
}

// AppendRows inserts values after the last row of the table found at rng
// and returns the number of rows the API reports as written.
func (c *Client) AppendRows(ctx context.Context, spreadsheetID, rng string, values [][]any) (int, error) {
	if c == nil || c.service == nil {
		return 0, fmt.Errorf("sheets: service is nil")
	}

	resp, err := c.service.Spreadsheets.Values.Append(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: append rows: %w", err)
	}

	if resp.Updates == nil {
		return len(values), nil
	}
	return int(resp.Updates.UpdatedRows), nil
}
