package export

import (
	"context"
	"fmt"

	"github.com/honeycarbs/job-finder/internal/domain"
	jobdomain "github.com/honeycarbs/job-finder/internal/domain/job"
	"github.com/honeycarbs/job-finder/pkg/logging"
)

const defaultTab = "Sheet1"

// rowAppender is the subset of the Sheets client the exporter needs
type rowAppender interface {
	AppendRows(ctx context.Context, spreadsheetID, rng string, values [][]any) (int, error)
}

// SheetsExporter appends listings to a fixed spreadsheet tab
type SheetsExporter struct {
	client        rowAppender
	spreadsheetID string
	tab           string
	logger        *logging.Logger
}

var _ jobdomain.Exporter = (*SheetsExporter)(nil)

// NewSheetsExporter builds an exporter; tab defaults to Sheet1
func NewSheetsExporter(client rowAppender, spreadsheetID, tab string, logger *logging.Logger) (*SheetsExporter, error) {
	if client == nil {
		return nil, fmt.Errorf("sheets exporter: client is required")
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets exporter: spreadsheet id is required")
	}
	if tab == "" {
		tab = defaultTab
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &SheetsExporter{client: client, spreadsheetID: spreadsheetID, tab: tab, logger: logger}, nil
}

// Export appends one row per listing and returns the rows written
func (e *SheetsExporter) Export(ctx context.Context, jobs []domain.JobListing) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	n, err := e.client.AppendRows(ctx, e.spreadsheetID, e.tab+"!A1", Rows(jobs))
	if err != nil {
		return 0, err
	}

	e.logger.Info("exported listings", "spreadsheet_id", e.spreadsheetID, "tab", e.tab, "rows", n)
	return n, nil
}

// Rows maps listings to sheet values. Salary cells stay numeric; absent
// bounds are empty.
func Rows(jobs []domain.JobListing) [][]any {
	values := make([][]any, len(jobs))
	for i, j := range jobs {
		values[i] = []any{
			j.ID,
			j.Title,
			j.Company,
			j.Location,
			amount(j.SalaryMin),
			amount(j.SalaryMax),
			j.ContractType,
			j.ContractTime,
			j.Category,
			j.Created,
			j.RedirectURL,
		}
	}
	return values
}

func amount(v *float64) any {
	if v == nil || *v <= 0 {
		return ""
	}
	return *v
}
