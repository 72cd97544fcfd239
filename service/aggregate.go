package service

import (
	"time"

	"github.com/Shr3y4sm/SpendSmart/models"

	"gorm.io/gorm"
)

// MonthlySpend returns a user's total spend and the matching expenses for
// one calendar month. It is a pure query over the expense table; no total
// is cached anywhere, so the result is always re-derivable.
func MonthlySpend(db *gorm.DB, userID uint, year int, month time.Month) (float64, []models.Expense, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var expenses []models.Expense
	if err := db.
		Where("user_id = ? AND date >= ? AND date < ?", userID, start.Format(models.DateLayout), end.Format(models.DateLayout)).
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		return 0, nil, err
	}

	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total, expenses, nil
}
