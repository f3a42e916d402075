package transport

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/dealdesk/backend/domain"
)

// DealRequest is the wire shape of a deal create/update body. It is the Deal
// record without id and created_at; stage defaults to New and value to 0.
type DealRequest struct {
	Name        string       `json:"name"`
	ContactName string       `json:"contact_name"`
	Company     string       `json:"company"`
	Stage       string       `json:"stage"`
	Value       *json.Number `json:"value"`
	CloseDate   *string      `json:"close_date"`
	Description *string      `json:"description"`
}

// ToDraft converts the request into a domain draft, applying defaults.
// Value goes through the decimal type so monetary precision survives the
// trip; structural validation stays with DealDraft.Validate.
func (r DealRequest) ToDraft() (domain.DealDraft, error) {
	draft := domain.DealDraft{
		Name:        r.Name,
		ContactName: r.ContactName,
		Company:     r.Company,
		Stage:       domain.StageNew,
		Description: r.Description,
	}

	if r.Stage != "" {
		draft.Stage = domain.Stage(r.Stage)
	}

	if r.Value != nil {
		value, err := decimal.NewFromString(r.Value.String())
		if err != nil {
			return draft, domain.NewValidationError("value", "must be a decimal number")
		}
		draft.Value = value
	}

	if r.CloseDate != nil && *r.CloseDate != "" {
		day, err := domain.ParseDate(*r.CloseDate)
		if err != nil {
			return draft, domain.NewValidationError("close_date", "must be a date in YYYY-MM-DD format")
		}
		draft.CloseDate = &day
	}

	return draft, nil
}
