package service

import (
	"fmt"

	"github.com/Shr3y4sm/SpendSmart/config"

	"gopkg.in/gomail.v2"
)

// EmailService sends budget alert emails over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates an email service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendBudgetWarning notifies a user that spending crossed the alert
// threshold for the month.
func (s *EmailService) SendBudgetWarning(toEmail, name string, budgetAmount, totalSpent float64, threshold int, month string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service disabled, set email.enabled=true")
	}

	percentage := spentPercentage(totalSpent, budgetAmount)
	subject := fmt.Sprintf("⚠️ Budget Warning: %.0f%% of Your %s Budget Used", percentage, month)
	html := s.generateWarningEmailBody(name, budgetAmount, totalSpent, month)
	text := s.generateWarningEmailText(name, budgetAmount, totalSpent, month)

	return s.sendEmail(toEmail, subject, text, html)
}

// SendBudgetExceeded notifies a user that spending passed the monthly
// budget.
func (s *EmailService) SendBudgetExceeded(toEmail, name string, budgetAmount, totalSpent float64, month string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service disabled, set email.enabled=true")
	}

	subject := fmt.Sprintf("⚠️ Budget Alert: You've Exceeded Your %s Budget", month)
	html := s.generateExceededEmailBody(name, budgetAmount, totalSpent, month)
	text := s.generateExceededEmailText(name, budgetAmount, totalSpent, month)

	return s.sendEmail(toEmail, subject, text, html)
}

func spentPercentage(totalSpent, budgetAmount float64) float64 {
	if budgetAmount <= 0 {
		return 0
	}
	return totalSpent / budgetAmount * 100
}

func baseURL() string {
	if config.GlobalConfig != nil && config.GlobalConfig.Server.BaseURL != "" {
		return config.GlobalConfig.Server.BaseURL
	}
	return "http://localhost:5000"
}

// generateWarningEmailBody renders the threshold warning email.
func (s *EmailService) generateWarningEmailBody(name string, budgetAmount, totalSpent float64, month string) string {
	percentage := spentPercentage(totalSpent, budgetAmount)
	remaining := budgetAmount - totalSpent

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #ffc107 0%%, #ff9800 100%%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .content { background: white; padding: 30px; border: 1px solid #e0e0e0; border-top: none; }
        .warning-box { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .stats { background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .stat-row { display: flex; justify-content: space-between; padding: 10px 0; border-bottom: 1px solid #dee2e6; }
        .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; background: #f8f9fa; border-radius: 0 0 10px 10px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>⚠️ Budget Warning</h1>
        <p style="margin: 10px 0 0 0;">You're approaching your budget limit</p>
    </div>
    <div class="content">
        <h2>Hi %s,</h2>
        <div class="warning-box">
            <strong>Budget Alert!</strong><br>
            You've reached %.1f%% of your budget for %s.
        </div>
        <div class="stats">
            <div class="stat-row"><span>Budget Set:</span><strong>Rs. %.2f</strong></div>
            <div class="stat-row"><span>Spent So Far:</span><strong style="color: #ff9800;">Rs. %.2f</strong></div>
            <div class="stat-row"><span>Remaining:</span><strong style="color: #28a745;">Rs. %.2f</strong></div>
        </div>
        <p>Consider reviewing your spending to stay within budget for the rest of the month.</p>
        <p style="text-align: center; margin-top: 30px;">
            <a href="%s/dashboard"
               style="display: inline-block; background: linear-gradient(135deg, #ffc107 0%%, #ff9800 100%%); color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; font-weight: 600;">
                Review Budget
            </a>
        </p>
    </div>
    <div class="footer">
        <p><strong>SpendSmart</strong> - Intelligent Expense Tracker</p>
        <p>This is an automated alert to help you stay on top of your finances.</p>
    </div>
</body>
</html>
`, name, percentage, month, budgetAmount, totalSpent, remaining, baseURL())
}

// generateExceededEmailBody renders the budget exceeded email.
func (s *EmailService) generateExceededEmailBody(name string, budgetAmount, totalSpent float64, month string) string {
	percentage := spentPercentage(totalSpent, budgetAmount)
	exceededBy := totalSpent - budgetAmount

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .content { background: white; padding: 30px; border: 1px solid #e0e0e0; border-top: none; }
        .alert-box { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .stats { background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .stat-row { display: flex; justify-content: space-between; padding: 10px 0; border-bottom: 1px solid #dee2e6; }
        .exceeded { color: #dc3545; }
        .tips { background: #e7f3ff; border-left: 4px solid #0066cc; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; background: #f8f9fa; border-radius: 0 0 10px 10px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>⚠️ Budget Alert</h1>
        <p style="margin: 10px 0 0 0; font-size: 16px;">SpendSmart Budget Notification</p>
    </div>
    <div class="content">
        <h2>Hi %s,</h2>
        <div class="alert-box">
            <strong>⚠️ Budget Exceeded!</strong><br>
            You have exceeded your monthly budget for %s.
        </div>
        <div class="stats">
            <div class="stat-row"><span>Budget Set:</span><strong>Rs. %.2f</strong></div>
            <div class="stat-row"><span>Total Spent:</span><strong class="exceeded">Rs. %.2f</strong></div>
            <div class="stat-row"><span>Exceeded By:</span><strong class="exceeded">Rs. %.2f</strong></div>
            <div class="stat-row"><span>Budget Usage:</span><strong class="exceeded">%.1f%%</strong></div>
        </div>
        <div class="tips">
            <h3>💡 Tips to Get Back on Track:</h3>
            <ul>
                <li>Review your recent expenses and identify areas to cut back</li>
                <li>Consider adjusting your budget for next month based on your spending patterns</li>
                <li>Use the Insights feature to analyze your spending categories</li>
            </ul>
        </div>
        <p style="text-align: center;">
            <a href="%s/dashboard"
               style="display: inline-block; background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; font-weight: 600;">
                View Dashboard
            </a>
        </p>
    </div>
    <div class="footer">
        <p><strong>SpendSmart</strong> - Intelligent Expense Tracker</p>
        <p>You're receiving this because you exceeded your budget threshold.</p>
    </div>
</body>
</html>
`, name, month, budgetAmount, totalSpent, exceededBy, percentage, baseURL())
}

// generateWarningEmailText is the plain-text alternative for clients that
// do not render HTML.
func (s *EmailService) generateWarningEmailText(name string, budgetAmount, totalSpent float64, month string) string {
	percentage := spentPercentage(totalSpent, budgetAmount)
	remaining := budgetAmount - totalSpent

	return fmt.Sprintf(`Budget Warning

Hi %s,

You've reached %.1f%% of your budget for %s.

Budget Set: Rs. %.2f
Spent So Far: Rs. %.2f
Remaining: Rs. %.2f

Consider reviewing your spending to stay within budget for the rest of the month.

Review your budget: %s/dashboard

SpendSmart - Intelligent Expense Tracker
`, name, percentage, month, budgetAmount, totalSpent, remaining, baseURL())
}

// generateExceededEmailText is the plain-text alternative of the exceeded
// email.
func (s *EmailService) generateExceededEmailText(name string, budgetAmount, totalSpent float64, month string) string {
	percentage := spentPercentage(totalSpent, budgetAmount)
	exceededBy := totalSpent - budgetAmount

	return fmt.Sprintf(`Budget Alert

Hi %s,

You have exceeded your monthly budget for %s.

Budget Set: Rs. %.2f
Total Spent: Rs. %.2f
Exceeded By: Rs. %.2f
Budget Usage: %.1f%%

Tips to get back on track:
- Review your recent expenses and identify areas to cut back
- Consider adjusting your budget for next month based on your spending patterns
- Use the Insights feature to analyze your spending categories

View your dashboard: %s/dashboard

SpendSmart - Intelligent Expense Tracker
`, name, month, budgetAmount, totalSpent, exceededBy, percentage, baseURL())
}

// sendEmail delivers one message over SMTP with a plain-text body and an
// HTML alternative.
func (s *EmailService) sendEmail(to, subject, text, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}
