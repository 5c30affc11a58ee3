package models

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// MaxSetupLength bounds the free-text setup column.
const MaxSetupLength = 1000

// JournalEntry is one recorded trade. Optional columns are pointers and
// serialize as null when unset.
type JournalEntry struct {
	ID           int64      `json:"id" db:"id"`
	UserID       string     `json:"userId" db:"user_id"`
	EntryTime    LocalTime  `json:"entryTime" db:"entry_time"`
	Symbol       string     `json:"symbol" db:"symbol"`
	Entry        float64    `json:"entry" db:"entry_price"`
	StopLoss     *float64   `json:"stopLoss" db:"stop_loss"`
	PositionSize float64    `json:"positionSize" db:"position_size"`
	Target       *float64   `json:"target" db:"target"`
	TrailingStop *float64   `json:"trailingStop" db:"trailing_stop"`
	ExitTime     *LocalTime `json:"exitTime" db:"exit_time"`
	Exit         *float64   `json:"exit" db:"exit_price"`
	Pnl          *float64   `json:"pnl" db:"pnl"`
	Setup        *string    `json:"setup" db:"setup"`
	CreatedAt    LocalTime  `json:"createdAt" db:"created_at"`
	UpdatedAt    LocalTime  `json:"updatedAt" db:"updated_at"`
}

// JournalEntryRequest is the body of create and update. Update uses it as a
// full replacement, so omitted optional fields clear the stored value.
type JournalEntryRequest struct {
	UserID       string     `json:"userId" validate:"notblank"`
	EntryTime    *LocalTime `json:"entryTime" validate:"required"`
	Symbol       string     `json:"symbol" validate:"notblank"`
	Entry        *float64   `json:"entry" validate:"required"`
	StopLoss     *float64   `json:"stopLoss"`
	PositionSize *float64   `json:"positionSize" validate:"required"`
	Target       *float64   `json:"target"`
	TrailingStop *float64   `json:"trailingStop"`
	ExitTime     *LocalTime `json:"exitTime"`
	Exit         *float64   `json:"exit"`
	Pnl          *float64   `json:"pnl"`
	Setup        *string    `json:"setup" validate:"omitempty,max=1000"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func entryValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// Validate checks the required fields. The returned error is a
// validator.ValidationErrors when a field rule fails.
func (r *JournalEntryRequest) Validate() error {
	return entryValidator().Struct(r)
}

// NewJournalEntry builds an unsaved entry from a validated request.
func NewJournalEntry(req JournalEntryRequest) JournalEntry {
	var e JournalEntry
	e.Apply(req)
	return e
}

// Apply overwrites every mutable field with the request's values.
// ID, CreatedAt and UpdatedAt are left alone.
func (e *JournalEntry) Apply(req JournalEntryRequest) {
	e.UserID = req.UserID
	if req.EntryTime != nil {
		e.EntryTime = *req.EntryTime
	}
	e.Symbol = req.Symbol
	if req.Entry != nil {
		e.Entry = *req.Entry
	}
	e.StopLoss = req.StopLoss
	if req.PositionSize != nil {
		e.PositionSize = *req.PositionSize
	}
	e.Target = req.Target
	e.TrailingStop = req.TrailingStop
	e.ExitTime = req.ExitTime
	e.Exit = req.Exit
	e.Pnl = req.Pnl
	e.Setup = req.Setup
}

// EntryStats is the per-user aggregate returned by the stats endpoint.
type EntryStats struct {
	EntryCount int64   `json:"entryCount"`
	TotalPnl   float64 `json:"totalPnl"`
}
