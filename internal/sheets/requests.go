package sheets

// Wire types for the slice of the Sheets v4 REST API campsync uses:
// values reads/writes and repeatCell formatting.

type valueRange struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values"`
}

type valuesBatchUpdateRequest struct {
	ValueInputOption string       `json:"valueInputOption"`
	Data             []valueRange `json:"data"`
}

type valuesGetResponse struct {
	Values [][]string `json:"values"`
}

type rgbColor struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// Color triplets the sync writes; Sheets expects 0-1 floats.
var (
	colorGreen = rgbColor{Red: 0, Green: 1, Blue: 0}
	colorRed   = rgbColor{Red: 1, Green: 0, Blue: 0}
	colorWhite = rgbColor{Red: 1, Green: 1, Blue: 1}
)

type gridRange struct {
	SheetID          int64 `json:"sheetId"`
	StartRowIndex    int   `json:"startRowIndex"`
	EndRowIndex      int   `json:"endRowIndex"`
	StartColumnIndex int   `json:"startColumnIndex"`
	EndColumnIndex   int   `json:"endColumnIndex"`
}

type textFormat struct {
	Bold bool `json:"bold"`
}

type cellFormat struct {
	BackgroundColor *rgbColor   `json:"backgroundColor,omitempty"`
	TextFormat      *textFormat `json:"textFormat,omitempty"`
}

type cellData struct {
	UserEnteredFormat cellFormat `json:"userEnteredFormat"`
}

type repeatCell struct {
	Range  gridRange `json:"range"`
	Cell   cellData  `json:"cell"`
	Fields string    `json:"fields"`
}

type gridProperties struct {
	RowCount    int `json:"rowCount"`
	ColumnCount int `json:"columnCount"`
}

type sheetProperties struct {
	SheetID int64  `json:"sheetId,omitempty"`
	Title   string `json:"title,omitempty"`

	GridProperties *gridProperties `json:"gridProperties,omitempty"`
}

type addSheet struct {
	Properties sheetProperties `json:"properties"`
}

type request struct {
	AddSheet   *addSheet   `json:"addSheet,omitempty"`
	RepeatCell *repeatCell `json:"repeatCell,omitempty"`
}

type batchUpdateRequest struct {
	Requests []request `json:"requests"`
}

type batchUpdateResponse struct {
	Replies []struct {
		AddSheet *struct {
			Properties sheetProperties `json:"properties"`
		} `json:"addSheet"`
	} `json:"replies"`
}

type spreadsheetMetadata struct {
	Sheets []struct {
		Properties sheetProperties `json:"properties"`
	} `json:"sheets"`
}

// backgroundFor maps a color instruction's paid flag to the cell color.
func backgroundFor(paid *bool) rgbColor {
	switch {
	case paid == nil:
		return colorWhite
	case *paid:
		return colorGreen
	default:
		return colorRed
	}
}
