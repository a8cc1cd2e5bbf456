package domain

import "time"

// RentalExportRow is a single row in an owner's rental-history export.
// It is a flat, denormalized view: one row per rental, with gear fields
// repeated for every rental of that item. Gear with no rentals yields one row
// with zero values for all rental fields.
type RentalExportRow struct {
	// Gear fields — repeated for every rental of the item.
	GearItemID string
	GearTitle  string
	GearStatus string

	// Rental fields — zero values when the item has no rentals.
	RentalID      string
	RenterID      string
	StartDate     string // RFC 3339 formatted
	EndDate       string
	RentalMode    string
	Status        string
	DepositStatus string
	DepositHeld   int
	PickedUpAt    *time.Time
	ReturnedAt    *time.Time
}
