package models

import (
	"strings"
	"unicode/utf8"

	apperrors "campusnet/backend/pkg/errors"
)

// BioState is the lifecycle state of a user's bio.
type BioState string

const (
	BioUnset BioState = "unset"
	BioSet   BioState = "set"
)

const MaxBioLength = 200

var (
	ErrBioAlreadySet = apperrors.Conflict("bio is already set, update it instead")
	ErrBioNotSet     = apperrors.Conflict("bio is not set yet")
	ErrBioEmpty      = apperrors.Validation("bio must not be empty")
	ErrBioTooLong    = apperrors.Validation("bio must be at most 200 characters")
)

// Bio is a strict state machine: unset -> set -> (updated | cleared).
// Values only change through Set, Update and Clear.
type Bio struct {
	State BioState `gorm:"size:10;not null;default:'unset'" json:"state"`
	Text  string   `gorm:"size:200;not null;default:''" json:"text"`
}

// IsSet reports whether a bio is present. The zero value is unset.
func (b Bio) IsSet() bool {
	return b.State == BioSet
}

// Set moves an unset bio to set.
func (b Bio) Set(text string) (Bio, error) {
	if b.IsSet() {
		return b, ErrBioAlreadySet
	}
	normalized, err := normalizeBio(text)
	if err != nil {
		return b, err
	}
	return Bio{State: BioSet, Text: normalized}, nil
}

// Update replaces the text of a set bio.
func (b Bio) Update(text string) (Bio, error) {
	if !b.IsSet() {
		return b, ErrBioNotSet
	}
	normalized, err := normalizeBio(text)
	if err != nil {
		return b, err
	}
	return Bio{State: BioSet, Text: normalized}, nil
}

// Clear returns a set bio to unset.
func (b Bio) Clear() (Bio, error) {
	if !b.IsSet() {
		return b, ErrBioNotSet
	}
	return Bio{State: BioUnset}, nil
}

func normalizeBio(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrBioEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxBioLength {
		return "", ErrBioTooLong
	}
	return trimmed, nil
}
