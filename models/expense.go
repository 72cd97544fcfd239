package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxExpenseAmount is the upper bound accepted for a single expense.
const MaxExpenseAmount = 999999.99

// Expense is a single spending record owned by one user.
type Expense struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	Item      string         `json:"item" gorm:"size:200;not null"`
	Category  string         `json:"category" gorm:"size:100;not null"`
	Amount    float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Date      Date           `json:"date" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	User      User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Expense) TableName() string {
	return "expenses"
}

// Expense categories. The set is fixed; the categorizer and validation both
// work against it.
const (
	CategoryFood          = "Food & Dining"
	CategoryTransport     = "Transportation"
	CategoryShopping      = "Shopping"
	CategoryEntertainment = "Entertainment"
	CategoryBills         = "Bills & Utilities"
	CategoryHealthcare    = "Healthcare"
	CategoryEducation     = "Education"
	CategoryOthers        = "Others"
)

// Categories returns all expense categories in display order.
func Categories() []string {
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryEntertainment,
		CategoryBills,
		CategoryHealthcare,
		CategoryEducation,
		CategoryOthers,
	}
}

// ValidCategory reports whether name is a member of the fixed category set.
func ValidCategory(name string) bool {
	for _, c := range Categories() {
		if c == name {
			return true
		}
	}
	return false
}
