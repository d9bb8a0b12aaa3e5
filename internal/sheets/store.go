package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/pmehta/expenso/internal/model"
)

// HeaderRow is the fixed first row written into every new expense sheet.
var HeaderRow = []string{"Date", "Amount", "Category", "Description", "Payment Mode"}

// Store defines the contract for the remote spreadsheet store.
type Store interface {
	// FindSpreadsheet looks up a non-trashed spreadsheet with the exact
	// name, newest first. Returns (nil, nil) when nothing matches.
	FindSpreadsheet(ctx context.Context, name string) (*model.SpreadsheetRef, error)
	// CreateSpreadsheet creates a spreadsheet with a single worksheet.
	CreateSpreadsheet(ctx context.Context, title, worksheetTitle string) (*model.SpreadsheetRef, error)
	// WriteHeader writes HeaderRow into the worksheet's first five columns.
	WriteHeader(ctx context.Context, spreadsheetID, worksheetTitle string) error
	// AppendRow appends one row at the given range selector.
	AppendRow(ctx context.Context, spreadsheetID, rangeSelector string, row []string) error
}

// StoreFactory builds a Store bound to a bearer credential. The token is
// short-lived, so a fresh store is built per operation batch.
type StoreFactory func(ctx context.Context, accessToken string) (Store, error)

// googleStore implements Store over the Drive and Sheets APIs.
type googleStore struct {
	drive  *drive.Service
	sheets *sheetsapi.Service
}

// NewGoogleStore creates a Store authenticated with the given access token.
func NewGoogleStore(ctx context.Context, accessToken string) (Store, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	httpClient := oauth2.NewClient(ctx, tokenSource)

	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	sheetsSvc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &googleStore{drive: driveSvc, sheets: sheetsSvc}, nil
}

func (g *googleStore) FindSpreadsheet(ctx context.Context, name string) (*model.SpreadsheetRef, error) {
	query := fmt.Sprintf(
		"name='%s' and mimeType='application/vnd.google-apps.spreadsheet' and trashed=false",
		escapeQueryValue(name))

	list, err := g.drive.Files.List().
		Q(query).
		OrderBy("createdTime desc").
		PageSize(1).
		Fields("files(id, name, webViewLink)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive search failed: %w", err)
	}

	if len(list.Files) == 0 {
		return nil, nil
	}

	file := list.Files[0]
	url := file.WebViewLink
	if url == "" {
		url = fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", file.Id)
	}

	return &model.SpreadsheetRef{ID: file.Id, URL: url}, nil
}

func (g *googleStore) CreateSpreadsheet(ctx context.Context, title, worksheetTitle string) (*model.SpreadsheetRef, error) {
	spreadsheet := &sheetsapi.Spreadsheet{
		Properties: &sheetsapi.SpreadsheetProperties{
			Title: title,
		},
		Sheets: []*sheetsapi.Sheet{
			{
				Properties: &sheetsapi.SheetProperties{
					Title: worksheetTitle,
				},
			},
		},
	}

	created, err := g.sheets.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	return &model.SpreadsheetRef{
		ID:  created.SpreadsheetId,
		URL: created.SpreadsheetUrl,
	}, nil
}

func (g *googleStore) WriteHeader(ctx context.Context, spreadsheetID, worksheetTitle string) error {
	header := make([]any, len(HeaderRow))
	for i, col := range HeaderRow {
		header[i] = col
	}

	valueRange := &sheetsapi.ValueRange{Values: [][]any{header}}

	_, err := g.sheets.Spreadsheets.Values.
		Update(spreadsheetID, fmt.Sprintf("%s!A1:E1", worksheetTitle), valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	return nil
}

func (g *googleStore) AppendRow(ctx context.Context, spreadsheetID, rangeSelector string, row []string) error {
	values := make([]any, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	valueRange := &sheetsapi.ValueRange{Values: [][]any{values}}

	_, err := g.sheets.Spreadsheets.Values.
		Append(spreadsheetID, rangeSelector, valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// escapeQueryValue escapes single quotes for Drive query strings.
func escapeQueryValue(value string) string {
	return strings.ReplaceAll(value, `'`, `\'`)
}
