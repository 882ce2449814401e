package models

import (
	"time"

	"gorm.io/datatypes"
)

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
