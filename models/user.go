package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account owning expenses and budgets.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;size:80;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;size:120;not null"`
	Password  string         `json:"-" gorm:"size:255;not null"`
	FullName  string         `json:"full_name" gorm:"size:150"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Expenses []Expense `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Budgets  []Budget  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

// DisplayName returns the name used in email greetings.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
