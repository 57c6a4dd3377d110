// Package sheets implements the destination row store on top of the Google
// Sheets v4 REST API. It owns the worksheet's fixed geometry (header row,
// reserved block, separator rows with the waitlist label) and applies the
// reconciler's instruction lists as batched requests.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/zeltlager-spelle/campsync/internal/transport"
	"github.com/zeltlager-spelle/campsync/pkg/constants"
	"github.com/zeltlager-spelle/campsync/pkg/errors"
	"github.com/zeltlager-spelle/campsync/pkg/layout"
	"github.com/zeltlager-spelle/campsync/pkg/logging"
	"github.com/zeltlager-spelle/campsync/pkg/rows"
	"github.com/zeltlager-spelle/campsync/pkg/store"
)

// DefaultBaseURL is the Sheets API root.
const DefaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Config holds the settings the store needs.
type Config struct {
	// BaseURL overrides the API root, mainly for tests.
	BaseURL string

	// SpreadsheetID is the destination spreadsheet.
	SpreadsheetID string

	// Worksheet is the sheet title written to; defaults to "Internet".
	Worksheet string

	// Token is an OAuth bearer token with spreadsheet scope. Obtaining and
	// refreshing it is the operator's business.
	Token string

	// Layout is the sheet geometry; zero value means the default layout.
	Layout layout.Layout
}

// Store implements store.Store against a Google spreadsheet.
type Store struct {
	baseURL       string
	spreadsheetID string
	worksheet     string
	layout        layout.Layout
	http          *transport.Client

	sheetID int64
	ensured bool
}

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// New creates a Sheets-backed store.
func New(cfg Config) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, &errors.ValidationError{Field: "spreadsheet_id", Message: "spreadsheet ID is required"}
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.ErrAPIKeyRequired
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	worksheet := cfg.Worksheet
	if worksheet == "" {
		worksheet = constants.DefaultWorksheet
	}
	l := cfg.Layout
	if l.Reserved == 0 {
		l = layout.Default()
	}

	return &Store{
		baseURL:       strings.TrimRight(baseURL, "/"),
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     worksheet,
		layout:        l,
		http:          transport.New(&transport.BearerAuth{Token: cfg.Token}),
	}, nil
}

// Ensure implements store.Store: it creates the worksheet if missing, writes
// the header row, and lays down the separator block with the bolded waitlist
// label. Safe to call repeatedly; every write is an overwrite with the same
// content.
func (s *Store) Ensure(ctx context.Context) error {
	if s.ensured {
		return nil
	}

	if err := s.resolveSheetID(ctx); err != nil {
		return err
	}

	header := valueRange{Values: [][]string{{constants.HeaderPosition, constants.HeaderTeam}}}
	if err := s.putValues(ctx, fmt.Sprintf("%s!A1", s.worksheet), header); err != nil {
		return err
	}

	sepStart := s.layout.SeparatorStart()
	sepEnd := s.layout.SeparatorEnd()
	separator := valueRange{Values: [][]string{{"", ""}, {"", ""}, {"", constants.WaitlistLabel}}}
	sepRange := fmt.Sprintf("%s!A%d:B%d", s.worksheet, sepStart, sepEnd)
	if err := s.putValues(ctx, sepRange, separator); err != nil {
		return err
	}

	bold := batchUpdateRequest{Requests: []request{{
		RepeatCell: &repeatCell{
			Range: gridRange{
				SheetID:          s.sheetID,
				StartRowIndex:    sepEnd - 1,
				EndRowIndex:      sepEnd,
				StartColumnIndex: 1,
				EndColumnIndex:   2,
			},
			Cell:   cellData{UserEnteredFormat: cellFormat{TextFormat: &textFormat{Bold: true}}},
			Fields: "userEnteredFormat.textFormat.bold",
		},
	}}}
	if err := s.batchUpdate(ctx, bold, nil); err != nil {
		return err
	}

	s.ensured = true
	logging.FromContext(ctx).Debug().
		Str("worksheet", s.worksheet).
		Int64("sheet_id", s.sheetID).
		Msg("Worksheet layout ensured")
	return nil
}

// Current implements store.Store: it reads A2:B and builds the team-keyed
// entry map, skipping the separator block and the waitlist label. Later rows
// win on team-key collisions.
func (s *Store) Current(ctx context.Context) (map[string]store.Entry, error) {
	rangeRef := fmt.Sprintf("%s!A2:B", s.worksheet)
	endpoint := fmt.Sprintf("%s/%s/values/%s", s.baseURL, s.spreadsheetID, url.PathEscape(rangeRef))

	resp, err := s.http.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapStore("read", err)
	}
	var payload valuesGetResponse
	if err := transport.DecodeResponse("sheets", resp, &payload); err != nil {
		return nil, errors.WrapStore("read", err)
	}

	out := make(map[string]store.Entry)
	for i, cells := range payload.Values {
		row := i + 2 // values start at sheet row 2
		if s.layout.IsSeparator(row) {
			continue
		}
		if len(cells) == 0 {
			continue
		}
		text := ""
		if len(cells) > 1 {
			text = cells[1]
		}
		if text == "" || strings.TrimSpace(text) == constants.WaitlistLabel {
			continue
		}

		pos, err := strconv.Atoi(cells[0])
		if err != nil {
			pos = 0
		}

		out[rows.TeamKey(text)] = store.Entry{
			Row:      row,
			Position: pos,
			Paid:     rows.PaidFromText(text),
			Text:     text,
		}
	}
	return out, nil
}

// Apply implements store.Store: cell updates go out as one
// values:batchUpdate call, colors as one batchUpdate of repeatCell requests.
// Either list may be empty.
func (s *Store) Apply(ctx context.Context, updates []store.Update, colors []store.Color) error {
	if len(updates) > 0 {
		data := make([]valueRange, 0, len(updates))
		for _, u := range updates {
			data = append(data, valueRange{
				Range:  fmt.Sprintf("%s!A%d:B%d", s.worksheet, u.Row, u.Row),
				Values: [][]string{{u.Values[0], u.Values[1]}},
			})
		}
		body, err := json.Marshal(valuesBatchUpdateRequest{
			ValueInputOption: "USER_ENTERED",
			Data:             data,
		})
		if err != nil {
			return errors.WrapParse("json", "values batch", err)
		}

		endpoint := fmt.Sprintf("%s/%s/values:batchUpdate", s.baseURL, s.spreadsheetID)
		resp, err := s.http.Post(ctx, endpoint, body)
		if err != nil {
			return errors.WrapStore("apply values", err)
		}
		if err := transport.DecodeResponse("sheets", resp, nil); err != nil {
			return errors.WrapStore("apply values", err)
		}
	}

	if len(colors) > 0 {
		reqs := make([]request, 0, len(colors))
		for _, c := range colors {
			bg := backgroundFor(c.Paid)
			reqs = append(reqs, request{RepeatCell: &repeatCell{
				Range: gridRange{
					SheetID:          s.sheetID,
					StartRowIndex:    c.Row - 1,
					EndRowIndex:      c.Row,
					StartColumnIndex: 1,
					EndColumnIndex:   2,
				},
				Cell:   cellData{UserEnteredFormat: cellFormat{BackgroundColor: &bg}},
				Fields: "userEnteredFormat.backgroundColor",
			}})
		}
		if err := s.batchUpdate(ctx, batchUpdateRequest{Requests: reqs}, nil); err != nil {
			return err
		}
	}

	return nil
}

// resolveSheetID finds the worksheet's numeric sheet ID, creating the
// worksheet when it does not exist yet.
func (s *Store) resolveSheetID(ctx context.Context) error {
	resp, err := s.http.Get(ctx, fmt.Sprintf("%s/%s", s.baseURL, s.spreadsheetID))
	if err != nil {
		return errors.WrapStore("metadata", err)
	}
	var meta spreadsheetMetadata
	if err := transport.DecodeResponse("sheets", resp, &meta); err != nil {
		return errors.WrapStore("metadata", err)
	}

	for _, sheet := range meta.Sheets {
		if sheet.Properties.Title == s.worksheet {
			s.sheetID = sheet.Properties.SheetID
			return nil
		}
	}

	add := batchUpdateRequest{Requests: []request{{
		AddSheet: &addSheet{Properties: sheetProperties{
			Title:          s.worksheet,
			GridProperties: &gridProperties{RowCount: 500, ColumnCount: 2},
		}},
	}}}
	var reply batchUpdateResponse
	if err := s.batchUpdate(ctx, add, &reply); err != nil {
		return err
	}
	if len(reply.Replies) == 0 || reply.Replies[0].AddSheet == nil {
		return errors.WrapStore("add sheet", errors.New("batchUpdate reply missing addSheet properties"))
	}
	s.sheetID = reply.Replies[0].AddSheet.Properties.SheetID
	return nil
}

// putValues overwrites a range with USER_ENTERED values.
func (s *Store) putValues(ctx context.Context, rangeRef string, values valueRange) error {
	body, err := json.Marshal(values)
	if err != nil {
		return errors.WrapParse("json", "value range", err)
	}

	endpoint := fmt.Sprintf("%s/%s/values/%s?valueInputOption=USER_ENTERED",
		s.baseURL, s.spreadsheetID, url.PathEscape(rangeRef))
	resp, err := s.http.Put(ctx, endpoint, body)
	if err != nil {
		return errors.WrapStore("write", err)
	}
	return errors.WrapStore("write", transport.DecodeResponse("sheets", resp, nil))
}

// batchUpdate posts the spreadsheet-level batchUpdate endpoint.
func (s *Store) batchUpdate(ctx context.Context, reqBody batchUpdateRequest, reply *batchUpdateResponse) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return errors.WrapParse("json", "batch update", err)
	}

	endpoint := fmt.Sprintf("%s/%s:batchUpdate", s.baseURL, s.spreadsheetID)
	resp, err := s.http.Post(ctx, endpoint, body)
	if err != nil {
		return errors.WrapStore("batch update", err)
	}
	if reply != nil {
		return errors.WrapStore("batch update", transport.DecodeResponse("sheets", resp, reply))
	}
	return errors.WrapStore("batch update", transport.DecodeResponse("sheets", resp, nil))
}
