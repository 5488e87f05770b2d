package quote

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// PayloadType discriminates cleaning-quote tokens from any other signed payload.
const PayloadType = "cleaning-quote"

var (
	ErrInvalidContact      = errors.New("invalid contact details")
	ErrInvalidDecisionLink = errors.New("invalid decision link")
	ErrWrongPayloadType    = errors.New("wrong payload type")
	ErrInvalidAction       = errors.New("invalid decision action")
	ErrMissingPrice        = errors.New("price required to accept")
	ErrAlreadyDecided      = errors.New("request already decided")
)

// Submission is the customer input for a cleaning quote.
type Submission struct {
	Region      string `json:"region"`
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	ApartmentID string `json:"apartmentId"`
	DateISO     string `json:"dateISO"`
}

// Request is the validated quote request embedded in a decision token.
// The JSON names are the token's wire format.
type Request struct {
	Type        string `json:"type"`
	Region      string `json:"region"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ApartmentID string `json:"apartmentId"`
	DateISO     string `json:"dateISO"`
	RequestedAt int64  `json:"requestedAt"`
}

// Action is the reviewer's verdict.
type Action string

const (
	Accept Action = "accept"
	Deny   Action = "deny"
)

// ParseAction accepts "accept" and "deny", case-insensitively.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case Accept:
		return Accept, nil
	case Deny:
		return Deny, nil
	}
	return "", ErrInvalidAction
}

// Decision is one reviewer submission for a request.
type Decision struct {
	Action Action
	Price  *float64
}

// ParsePrice reads an optional price typed by the reviewer. Both "80.5" and
// "80,5" are accepted; an empty string means no price.
func ParsePrice(s string) (*float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "€"))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil, ErrMissingPrice
	}
	if v == 0 {
		v = 0 // drops the sign of "-0"
	}
	return &v, nil
}

func validPrice(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0) && *p >= 0
}
