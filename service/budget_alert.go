package service

import (
	"errors"
	"log"
	"time"

	"github.com/Shr3y4sm/SpendSmart/database"
	"github.com/Shr3y4sm/SpendSmart/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BudgetMailer is the notifier boundary used by the evaluator. Failures are
// reported as errors and never cross the boundary as panics.
type BudgetMailer interface {
	SendBudgetWarning(toEmail, name string, budgetAmount, totalSpent float64, threshold int, month string) error
	SendBudgetExceeded(toEmail, name string, budgetAmount, totalSpent float64, month string) error
}

// BudgetAlertService decides, after an expense write, whether a budget
// notification email is due and guarantees at most one warning and one
// exceeded email per (user, month).
type BudgetAlertService struct {
	mailer BudgetMailer
	now    func() time.Time
}

// NewBudgetAlertService creates the evaluator.
func NewBudgetAlertService(mailer BudgetMailer) *BudgetAlertService {
	return &BudgetAlertService{
		mailer: mailer,
		now:    time.Now,
	}
}

// CheckBudgetAlerts runs the alert evaluation for the month affected by an
// expense write. It never returns an error: notifier and storage failures
// are logged and must not fail the triggering expense operation.
//
// Writes affecting a month other than the current calendar month are
// ignored, so backdated or future-dated expenses never trigger email.
func (s *BudgetAlertService) CheckBudgetAlerts(userID uint, affected time.Time) {
	month := models.MonthKey(affected)
	if month != models.MonthKey(s.now()) {
		return
	}

	// Steps below run in one transaction with a row lock on the budget so
	// two concurrent writers for the same (user, month) cannot both observe
	// a false flag and double-send.
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND month = ?", userID, month).
			First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// no budget, no alert possible
				return nil
			}
			return err
		}

		totalSpent, _, err := MonthlySpend(tx, userID, affected.Year(), affected.Month())
		if err != nil {
			return err
		}

		percentage := 0.0
		if budget.Amount > 0 {
			percentage = totalSpent / budget.Amount * 100
		}

		switch {
		case percentage >= 100 && !budget.ExceededSent:
			return s.sendAndMark(tx, &budget, "exceeded_sent", func(u *models.User) error {
				return s.mailer.SendBudgetExceeded(u.Email, u.DisplayName(), budget.Amount, totalSpent, month)
			})
		case percentage >= float64(budget.AlertThreshold) && !budget.WarningSent && !budget.ExceededSent:
			return s.sendAndMark(tx, &budget, "warning_sent", func(u *models.User) error {
				return s.mailer.SendBudgetWarning(u.Email, u.DisplayName(), budget.Amount, totalSpent, budget.AlertThreshold, month)
			})
		}
		return nil
	})
	if err != nil {
		log.Printf("budget alert check failed for user %d month %s: %v", userID, month, err)
	}
}

// sendAndMark sends one notification and flips the matching sent-flag. The
// flag is persisted only on a confirmed send, so a failed send is retried
// on the next qualifying expense write.
func (s *BudgetAlertService) sendAndMark(tx *gorm.DB, budget *models.Budget, flag string, send func(*models.User) error) error {
	var user models.User
	if err := tx.First(&user, budget.UserID).Error; err != nil {
		return err
	}

	if err := send(&user); err != nil {
		log.Printf("budget alert email (%s) to %s failed: %v", flag, user.Email, err)
		return nil
	}

	return tx.Model(budget).Update(flag, true).Error
}
