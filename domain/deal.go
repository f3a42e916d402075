package domain

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

func init() {
	// Monetary values go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Stage is the pipeline state of a deal.
type Stage string

const (
	StageNew        Stage = "New"
	StageInProgress Stage = "In Progress"
	StageWon        Stage = "Won"
	StageLost       Stage = "Lost"
)

// Stages lists every valid pipeline stage.
var Stages = []Stage{StageNew, StageInProgress, StageWon, StageLost}

func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageInProgress, StageWon, StageLost:
		return true
	}
	return false
}

const maxShortText = 255

// Deal is a sales opportunity tracked through the pipeline.
// ID and CreatedAt are assigned by the store and never change afterwards.
type Deal struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	ContactName string          `json:"contact_name"`
	Company     string          `json:"company"`
	Stage       Stage           `json:"stage"`
	Value       decimal.Decimal `json:"value"`
	CreatedAt   time.Time       `json:"created_at"`
	CloseDate   *Date           `json:"close_date"`
	Description *string         `json:"description"`
}

// DealDraft carries every caller-writable field of a deal. Updates replace
// all of these fields verbatim; there are no partial patches.
type DealDraft struct {
	Name        string
	ContactName string
	Company     string
	Stage       Stage
	Value       decimal.Decimal
	CloseDate   *Date
	Description *string
}

// Validate checks the draft against the entity constraints and names the
// offending field in the returned error.
func (d DealDraft) Validate() error {
	if err := requireShortText("name", d.Name); err != nil {
		return err
	}
	if err := requireShortText("contact_name", d.ContactName); err != nil {
		return err
	}
	if err := requireShortText("company", d.Company); err != nil {
		return err
	}
	if !d.Stage.Valid() {
		return NewValidationError("stage", "must be one of New, In Progress, Won, Lost")
	}
	if d.Value.IsNegative() {
		return NewValidationError("value", "must not be negative")
	}
	return nil
}

func requireShortText(field, value string) error {
	if value == "" {
		return NewValidationError(field, "is required")
	}
	if utf8.RuneCountInString(value) > maxShortText {
		return NewValidationError(field, "must be at most 255 characters")
	}
	return nil
}
