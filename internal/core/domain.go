package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const maxDescriptionLen = 200

type (
	Money struct {
		Cents int64
	}

	// Entry is one dated financial record. Date keeps the offset it was
	// composed with.
	Entry struct {
		ID          int64
		Date        time.Time
		Description string
		Amount      Money
		Category    string
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrDescriptionLength = errors.New("description too long")
	ErrEmptyCategory     = errors.New("empty category")
	ErrInvalidDate       = errors.New("invalid date")
	ErrDateOutOfRange    = errors.New("date out of range")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// String renders cents with a dot decimal separator and comma thousands.
func (m Money) String() string {
	return FormatCents(m.Cents)
}

func (e Entry) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(e.Description) > maxDescriptionLen {
		return fmt.Errorf("%w (max %d characters)", ErrDescriptionLength, maxDescriptionLen)
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
