package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DailyCodePrefix builds the date-scoped code prefix, e.g. "REQ-20250901-".
func DailyCodePrefix(kind string, t time.Time) string {
	return kind + "-" + t.Format("20060102") + "-"
}

// FormatDailyCode renders a full code from its prefix and sequence number,
// zero-padded to three digits.
func FormatDailyCode(prefix string, seq int64) string {
	return fmt.Sprintf("%s%03d", prefix, seq)
}

// nextDailyCode generates the next PREFIX-YYYYMMDD-NNN code by counting
// today's codes and adding one. A per-prefix advisory lock serializes
// concurrent generators so two transactions cannot mint the same code.
// Must run inside a transaction for the xact-scoped lock to matter.
func nextDailyCode(db *gorm.DB, modelValue interface{}, codeColumn, kind string) (string, error) {
	prefix := DailyCodePrefix(kind, time.Now())

	// Without the lock two transactions could count the same rows and mint
	// duplicate codes, so a failed lock statement fails the generation.
	if err := db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix).Error; err != nil {
		return "", err
	}

	var count int64
	if err := db.Model(modelValue).
		Where(codeColumn+" LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return FormatDailyCode(prefix, count+1), nil
}
