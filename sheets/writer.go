package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"oikotie-scraper/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const sheetRange = "Sheet1"

// Writer appends canonical records to one worksheet and deduplicates
// by listing id. The id set is loaded from the sheet once at startup
// and kept in memory afterwards.
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
	ids           map[int64]bool
	nextRow       int
	log           *slog.Logger
}

// NewWriter creates a Google Sheets writer. Credentials come from the
// given file path or, when empty, the GOOGLE_SHEETS_CREDENTIALS
// environment variable.
func NewWriter(ctx context.Context, spreadsheetID, credentialsPath string, log *slog.Logger) (*Writer, error) {
	credsJSON, err := readCredentials(credentialsPath)
	if err != nil {
		return nil, err
	}

	// Validate that it's a service account credentials file.
	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file, got type: %v", creds["type"])
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}
	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
		ids:           make(map[int64]bool),
		log:           log,
	}, nil
}

func readCredentials(credentialsPath string) ([]byte, error) {
	if credentialsPath != "" {
		data, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		return data, nil
	}
	credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
	if credsEnv == "" {
		return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS is empty or not set")
	}
	return []byte(credsEnv), nil
}

// Load reads the existing sheet contents, seeds the in-memory id set
// from column A and writes the header row when the sheet is empty.
func (w *Writer) Load(ctx context.Context) error {
	resp, err := w.service.Spreadsheets.Values.Get(w.spreadsheetID, sheetRange+"!A:A").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read existing sheet data: %w", err)
	}

	if len(resp.Values) == 0 {
		header := make([]interface{}, 0, len(models.Fields()))
		for _, f := range models.Fields() {
			header = append(header, f)
		}
		valueRange := &sheets.ValueRange{Values: [][]interface{}{header}}
		_, err := w.service.Spreadsheets.Values.Update(w.spreadsheetID, sheetRange+"!A1", valueRange).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write header row: %w", err)
		}
		w.nextRow = 2
		w.log.Info("sheet initialized with header row")
		return nil
	}

	// Row 1 is the header; everything below carries an id in column A.
	for _, row := range resp.Values[1:] {
		if len(row) == 0 {
			continue
		}
		id, err := strconv.ParseInt(fmt.Sprint(row[0]), 10, 64)
		if err != nil {
			continue
		}
		w.ids[id] = true
	}
	w.nextRow = len(resp.Values) + 1
	w.log.Info("sheet loaded", "known_ids", len(w.ids))
	return nil
}

// Insert appends the entry unless its id is already present. Returns
// true when a new row was written.
func (w *Writer) Insert(ctx context.Context, entry models.HouseEntry) (bool, error) {
	if w.ids[entry.ID] {
		w.log.Debug("already exists", "id", entry.ID)
		return false, nil
	}

	valueRange := &sheets.ValueRange{Values: [][]interface{}{entry.Row()}}
	target := fmt.Sprintf("%s!A%d", sheetRange, w.nextRow)
	_, err := w.service.Spreadsheets.Values.Update(w.spreadsheetID, target, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return false, fmt.Errorf("failed to append listing %d: %w", entry.ID, err)
	}

	w.ids[entry.ID] = true
	w.nextRow++
	w.log.Info("found a new one", "id", entry.ID, "address", entry.Address, "price", entry.Price)
	return true, nil
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google
// Sheets URL of the usual /spreadsheets/d/<id>/edit shape.
func ExtractSpreadsheetID(url string) string {
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}
	idPart := parts[1]
	if idx := strings.Index(idPart, "/"); idx != -1 {
		idPart = idPart[:idx]
	}
	if idx := strings.Index(idPart, "?"); idx != -1 {
		idPart = idPart[:idx]
	}
	return strings.TrimSpace(idPart)
}
