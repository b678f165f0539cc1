package models

import (
	"errors"
	"strings"
	"testing"

	apperrors "campusnet/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBio_Lifecycle(t *testing.T) {
	var bio Bio
	assert.False(t, bio.IsSet())

	bio, err := bio.Set("hi")
	require.NoError(t, err)
	assert.Equal(t, Bio{State: BioSet, Text: "hi"}, bio)

	_, err = bio.Set("again")
	assert.True(t, errors.Is(err, ErrBioAlreadySet))
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	bio, err = bio.Update("again")
	require.NoError(t, err)
	assert.Equal(t, "again", bio.Text)

	bio, err = bio.Clear()
	require.NoError(t, err)
	assert.False(t, bio.IsSet())
	assert.Empty(t, bio.Text)

	_, err = bio.Clear()
	assert.True(t, errors.Is(err, ErrBioNotSet))
}

func TestBio_UpdateRequiresSet(t *testing.T) {
	_, err := Bio{}.Update("text")
	assert.True(t, errors.Is(err, ErrBioNotSet))
}

func TestBio_FailedTransitionKeepsValue(t *testing.T) {
	bio := Bio{State: BioSet, Text: "keep me"}

	got, err := bio.Update(strings.Repeat("a", MaxBioLength+1))
	assert.True(t, errors.Is(err, ErrBioTooLong))
	assert.Equal(t, bio, got)
}

func TestBio_Validation(t *testing.T) {
	_, err := Bio{}.Set("   ")
	assert.True(t, errors.Is(err, ErrBioEmpty))

	// 200 runes is fine even when multi-byte
	bio, err := Bio{}.Set(strings.Repeat("é", MaxBioLength))
	require.NoError(t, err)
	assert.Equal(t, MaxBioLength, len([]rune(bio.Text)))

	bio, err = Bio{}.Set("  padded  ")
	require.NoError(t, err)
	assert.Equal(t, "padded", bio.Text)
}
