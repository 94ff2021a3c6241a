package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	deletedMarker  = "_DEL_"
	restoredSuffix = "_RES"
)

// CodePrefix is the YYYY_MM_ month prefix shared by every trip code loaded
// in that month.
func CodePrefix(loadingDate time.Time) string {
	return loadingDate.Format("2006_01_")
}

// FormatTripCode pads to three digits and widens past 999.
func FormatTripCode(prefix string, seq int) string {
	return fmt.Sprintf("%s%03d", prefix, seq)
}

// NextSequence returns one more than the highest sequence number among the
// active codes under prefix. Codes whose suffix does not parse are skipped.
func NextSequence(prefix string, activeCodes []string) int {
	highest := 0
	for _, code := range activeCodes {
		if n, ok := sequenceOf(prefix, code); ok && n > highest {
			highest = n
		}
	}
	return highest + 1
}

func sequenceOf(prefix, code string) (int, bool) {
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(code, prefix), restoredSuffix)
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// DeletedCode vacates a code slot: 2025_01_001 -> 2025_01_001_DEL_<unix ms>.
func DeletedCode(code string, at time.Time) string {
	return fmt.Sprintf("%s%s%d", code, deletedMarker, at.UnixMilli())
}

// OriginalFromDeleted recovers YYYY_MM_NNN from a YYYY_MM_NNN_DEL_<ms> code.
// Rows soft-deleted before original_trip_code existed rely on this.
func OriginalFromDeleted(code string) (string, bool) {
	parts := strings.Split(code, "_")
	if len(parts) < 4 || parts[3] != "DEL" {
		return "", false
	}
	for _, p := range parts[:3] {
		if p == "" {
			return "", false
		}
	}
	return strings.Join(parts[:3], "_"), true
}

// restoreCandidates lists the codes a restore may take, in preference order.
// A code that already carries the restore suffix falls back to its base.
func restoreCandidates(original string) []string {
	if base := strings.TrimSuffix(original, restoredSuffix); base != original {
		return []string{original, base}
	}
	return []string{original, original + restoredSuffix}
}

// prefixOfCode returns the YYYY_MM_ part of a trip code, or "" if the code
// does not have one.
func prefixOfCode(code string) string {
	parts := strings.SplitN(code, "_", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[0] + "_" + parts[1] + "_"
}
