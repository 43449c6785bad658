package utils

import (
	"database/sql"
	"math"
)

// Round2 rounds a value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NullStringToString converts a sql.NullString to a plain string.
func NullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// NullFloatToFloat converts a sql.NullFloat64 to a plain float64.
func NullFloatToFloat(nf sql.NullFloat64) float64 {
	if nf.Valid {
		return nf.Float64
	}
	return 0
}
