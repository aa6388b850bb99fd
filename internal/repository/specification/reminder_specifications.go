package specification

import (
	"time"

	"gorm.io/gorm"
)

// DueBefore selects reminders whose schedule time has passed.
type DueBefore struct {
	Time time.Time
}

func (s DueBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("schedule_time <= ?", s.Time)
}

type NotYetNotified struct{}

func (s NotYetNotified) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notified_at IS NULL")
}
