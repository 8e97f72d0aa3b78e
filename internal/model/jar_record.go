package model

import (
	"time"
)

// JarRecord is a daily inventory count of water-jar units in circulation,
// one per supplier per date
type JarRecord struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	SupplierID     uint      `json:"supplier_id" gorm:"not null;uniqueIndex:idx_jar_record_day"`
	RecordDate     string    `json:"record_date" gorm:"type:varchar(10);not null;uniqueIndex:idx_jar_record_day"` // YYYY-MM-DD
	TotalRefilling int       `json:"total_refilling" gorm:"default:0"`
	EmptyJars      int       `json:"empty_jars" gorm:"default:0"`
	OnboardJars    int       `json:"onboard_jars" gorm:"default:0"`
	Notes          string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TotalJars returns the jar count across all buckets
func (j *JarRecord) TotalJars() int {
	return j.TotalRefilling + j.EmptyJars + j.OnboardJars
}
