package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/Shr3y4sm/SpendSmart/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

type fakeMailer struct {
	warnings int
	exceeded int
	sendErr  error
}

func (m *fakeMailer) SendBudgetWarning(toEmail, name string, budgetAmount, totalSpent float64, threshold int, month string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.warnings++
	return nil
}

func (m *fakeMailer) SendBudgetExceeded(toEmail, name string, budgetAmount, totalSpent float64, month string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.exceeded++
	return nil
}

var alertTestNow = time.Date(2025, 8, 20, 12, 0, 0, 0, time.Local)

func newTestAlertService(mailer *fakeMailer) *BudgetAlertService {
	s := NewBudgetAlertService(mailer)
	s.now = func() time.Time { return alertTestNow }
	return s
}

func budgetRows(amount float64, threshold int, warningSent, exceededSent bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "amount", "alert_threshold", "month", "warning_sent", "exceeded_sent", "created_at", "updated_at", "deleted_at"}).
		AddRow(1, 1, amount, threshold, "2025-08", warningSent, exceededSent, time.Now(), time.Now(), nil)
}

func expenseRows(amounts ...float64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "item", "category", "amount", "date", "created_at", "updated_at", "deleted_at"})
	for i, amount := range amounts {
		rows.AddRow(i+1, 1, fmt.Sprintf("item %d", i+1), "Food & Dining", amount, "2025-08-15", time.Now(), time.Now(), nil)
	}
	return rows
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password", "full_name", "created_at", "updated_at", "deleted_at"}).
		AddRow(1, "alice", "alice@example.com", "hash", "Alice", time.Now(), time.Now(), nil)
}

func TestCheckBudgetAlerts_NoBudget(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mailer := &fakeMailer{}
	s := newTestAlertService(mailer)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1), "2025-08").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	s.CheckBudgetAlerts(1, alertTestNow)

	assert.Zero(t, mailer.warnings)
	assert.Zero(t, mailer.exceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetAlerts_NonCurrentMonthIgnored(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mailer := &fakeMailer{}
	s := newTestAlertService(mailer)

	// backdated expense, evaluation never touches the database
	s.CheckBudgetAlerts(1, time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local))

	assert.Zero(t, mailer.warnings)
	assert.Zero(t, mailer.exceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetAlerts_WarningSentOnce(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mailer := &fakeMailer{}
	s := newTestAlertService(mailer)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1), "2025-08").
		WillReturnRows(budgetRows(1000, 80, false, false))
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(uint(1), "2025-08-01", "2025-09-01").
		WillReturnRows(expenseRows(500, 350))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(1)).
		WillReturnRows(userRows())
	mock.ExpectExec("UPDATE `budgets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s.CheckBudgetAlerts(1, alertTestNow)

	assert.Equal(t, 1, mailer.warnings)
	assert.Zero(t, mailer.exceeded)
	require.NoError(t, mock.ExpectationsWereMet())

	// second write after the flag stuck: no further email
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1), "2025-08").
		WillReturnRows(budgetRows(1000, 80, true, false))
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(uint(1), "2025-08-01", "2025-09-01").
		WillReturnRows(expenseRows(500, 350, 20))
	mock.ExpectCommit()

	s.CheckBudgetAlerts(1, alertTestNow)

	assert.Equal(t, 1, mailer.warnings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetAlerts_ExceededBeatsWarning(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mailer := &fakeMailer{}
	s := newTestAlertService(mailer)

	// one large expense jumps straight past 100%: only the exceeded email
	// goes out, the warning is skipped entirely
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1), "2025-08").
		WillReturnRows(budgetRows(1000, 80, false, false))
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(uint(1), "2025-08-01", "2025-09-01").
		WillReturnRows(expenseRows(1200))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(1)).
		WillReturnRows(userRows())
	mock.ExpectExec("UPDATE `budgets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s.CheckBudgetAlerts(1, alertTestNow)

	assert.Zero(t, mailer.warnings)
	assert.Equal(t, 1, mailer.exceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetAlerts_ExceededSentOnce(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mailer := &fakeMailer{}
	s := newTestAlertService(mailer)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1), "2025-08").
		WillReturnRows(budgetRows(1000, 80, false, true))
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(uint(1), "2025-08-01", "2025-09-01").
		WillReturnRows(expenseRows(1200, 100))
	mock.ExpectCommit()

	s.CheckBudgetAlerts(1, alertTestNow)

	assert.Zero(t, mailer.warnings)
	assert.Zero(t, mailer.exceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetAlerts_ZeroAmountBudget(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mailer := &fakeMailer{}
	s := newTestAlertService(mailer)

	// a zero budget never divides by zero and never alerts
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1), "2025-08").
		WillReturnRows(budgetRows(0, 80, false, false))
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(uint(1), "2025-08-01", "2025-09-01").
		WillReturnRows(expenseRows(400))
	mock.ExpectCommit()

	s.CheckBudgetAlerts(1, alertTestNow)

	assert.Zero(t, mailer.warnings)
	assert.Zero(t, mailer.exceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetAlerts_FailedSendRetriedNextWrite(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mailer := &fakeMailer{sendErr: fmt.Errorf("smtp down")}
	s := newTestAlertService(mailer)

	// the send fails, so the flag must stay false: no UPDATE is issued
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1), "2025-08").
		WillReturnRows(budgetRows(1000, 80, false, false))
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(uint(1), "2025-08-01", "2025-09-01").
		WillReturnRows(expenseRows(900))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(1)).
		WillReturnRows(userRows())
	mock.ExpectCommit()

	s.CheckBudgetAlerts(1, alertTestNow)
	assert.Zero(t, mailer.warnings)
	require.NoError(t, mock.ExpectationsWereMet())

	// next qualifying write retries and succeeds
	mailer.sendErr = nil
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1), "2025-08").
		WillReturnRows(budgetRows(1000, 80, false, false))
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(uint(1), "2025-08-01", "2025-09-01").
		WillReturnRows(expenseRows(900, 50))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(1)).
		WillReturnRows(userRows())
	mock.ExpectExec("UPDATE `budgets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s.CheckBudgetAlerts(1, alertTestNow)
	assert.Equal(t, 1, mailer.warnings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetAlerts_BelowThreshold(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mailer := &fakeMailer{}
	s := newTestAlertService(mailer)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1), "2025-08").
		WillReturnRows(budgetRows(1000, 80, false, false))
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(uint(1), "2025-08-01", "2025-09-01").
		WillReturnRows(expenseRows(300))
	mock.ExpectCommit()

	s.CheckBudgetAlerts(1, alertTestNow)

	assert.Zero(t, mailer.warnings)
	assert.Zero(t, mailer.exceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}
