package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/models"
)

func TestParseResponseQuality(t *testing.T) {
	tests := []struct {
		in   string
		want models.ResponseQuality
	}{
		{"0", models.Incorrect},
		{"5", models.Perfect},
		{"good", models.Good},
		{" Difficult ", models.Difficult},
		{"HARD", models.Hard},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := models.ParseResponseQuality(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestParseResponseQuality_Invalid(t *testing.T) {
	for _, in := range []string{"6", "-1", "meh", ""} {
		_, err := models.ParseResponseQuality(in)
		assert.Error(t, err, in)
	}
}

func TestResponseQuality_String(t *testing.T) {
	assert.Equal(t, "EASY", models.Easy.String())
	assert.Equal(t, "ResponseQuality(9)", models.ResponseQuality(9).String())
	assert.False(t, models.ResponseQuality(-1).IsValid())
}
