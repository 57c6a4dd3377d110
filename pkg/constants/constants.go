// Package constants provides shared constants used throughout the campsync
// codebase. This includes timeouts, spreadsheet layout defaults, Campflow
// column identifiers, and file permissions that should be consistent across
// the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the
	// Campflow and Sheets APIs
	DefaultHTTPTimeout = 10 * time.Second

	// CreateTimeout is the timeout for person-creation requests, which the
	// Campflow backend handles noticeably slower than reads
	CreateTimeout = 15 * time.Second

	// DefaultPollInterval is the default pause between sync ticks
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultSnapshotEvery is how much polling time must accumulate before
	// a CSV snapshot of the raw person payload is written
	DefaultSnapshotEvery = 10 * time.Second
)

// Campflow API constants
const (
	// DefaultBaseURL is the Campflow API root
	DefaultBaseURL = "https://api.campflow.de/"

	// DefaultEventID is the registration list synced when EVENT_ID is unset
	DefaultEventID = "lst_tZmFgcC33pXQes4OvtIa"

	// TeamColumn is the custom column ID holding the team name
	TeamColumn = "col_9RodWlHTUW1bHtBe1VvN"

	// VillageColumn is the custom column ID holding the home village
	VillageColumn = "col_ZUBDynEEutHqO8PX7GDL"

	// PaidLabel is the label that marks an attendee as paid
	PaidLabel = "Bezahlt"
)

// Spreadsheet layout constants
const (
	// DefaultReserved is the number of guaranteed starting places before
	// the waitlist section begins
	DefaultReserved = 72

	// DefaultWorksheet is the worksheet title the sync writes to
	DefaultWorksheet = "Internet"

	// WaitlistLabel is the text of the label row between the reserved
	// block and the waitlist
	WaitlistLabel = "Warteliste"

	// HeaderPosition and HeaderTeam are the two header cells of row 1
	HeaderPosition = "Startplatz"
	HeaderTeam     = "Mannschaft"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
