package models

import (
	"time"

	"gorm.io/gorm"
)

// Budget is a monthly spending limit for one user. At most one row exists
// per (user, month); the sent-flags only ever move false to true within a
// month, so each budget period produces at most one warning and one
// exceeded email. A new month starts with fresh flags.
type Budget struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_month"`
	Amount         float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	AlertThreshold int            `json:"alert_threshold" gorm:"not null;default:80"`
	Month          string         `json:"month" gorm:"size:7;not null;uniqueIndex:idx_user_month"` // YYYY-MM
	WarningSent    bool           `json:"warning_sent" gorm:"not null;default:false"`
	ExceededSent   bool           `json:"exceeded_sent" gorm:"not null;default:false"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
	User           User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Budget) TableName() string {
	return "budgets"
}

// MonthKey formats a point in time as the YYYY-MM budget key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
