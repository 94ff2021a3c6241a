package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCodePrefix(t *testing.T) {
	d := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025_01_", CodePrefix(d))
}

func TestFormatTripCode(t *testing.T) {
	assert.Equal(t, "2025_01_001", FormatTripCode("2025_01_", 1))
	assert.Equal(t, "2025_01_042", FormatTripCode("2025_01_", 42))
	assert.Equal(t, "2025_01_1000", FormatTripCode("2025_01_", 1000))
}

func TestNextSequence(t *testing.T) {
	tests := []struct {
		name  string
		codes []string
		want  int
	}{
		{"empty month", nil, 1},
		{"contiguous", []string{"2025_01_001", "2025_01_002"}, 3},
		{"gap keeps max", []string{"2025_01_001", "2025_01_005"}, 6},
		{"restored code counts", []string{"2025_01_003_RES", "2025_01_001"}, 4},
		{"unparsable ignored", []string{"2025_01_abc", "2025_01_002", "2025_01_"}, 3},
		{"other month ignored", []string{"2025_02_009", "2025_01_001"}, 2},
		{"past 999", []string{"2025_01_999"}, 1000},
		{"numeric not lexical", []string{"2025_01_1000", "2025_01_999"}, 1001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSequence("2025_01_", tt.codes))
		})
	}
}

func TestDeletedCodeRoundTrip(t *testing.T) {
	at := time.UnixMilli(1736899200123)
	code := DeletedCode("2025_01_001", at)
	assert.Equal(t, "2025_01_001_DEL_1736899200123", code)

	orig, ok := OriginalFromDeleted(code)
	assert.True(t, ok)
	assert.Equal(t, "2025_01_001", orig)
}

func TestOriginalFromDeletedRejectsMalformed(t *testing.T) {
	for _, code := range []string{"2025_01_001", "2025_01_001_RES", "garbage", "_01_001_DEL_1"} {
		_, ok := OriginalFromDeleted(code)
		assert.False(t, ok, code)
	}
}

func TestRestoreCandidates(t *testing.T) {
	assert.Equal(t, []string{"2025_01_001", "2025_01_001_RES"}, restoreCandidates("2025_01_001"))
	assert.Equal(t, []string{"2025_01_001_RES", "2025_01_001"}, restoreCandidates("2025_01_001_RES"))
}

func TestPrefixOfCode(t *testing.T) {
	assert.Equal(t, "2025_01_", prefixOfCode("2025_01_001"))
	assert.Equal(t, "2025_01_", prefixOfCode("2025_01_001_RES"))
	assert.Equal(t, "", prefixOfCode("legacy"))
}
