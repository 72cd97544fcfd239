package database

import (
	"fmt"
	"log"

	"github.com/Shr3y4sm/SpendSmart/config"
	"github.com/Shr3y4sm/SpendSmart/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the database connection and migrates the schema.
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	logMode := logger.Warn
	if cfg.Server.Mode == "debug" {
		logMode = logger.Info
	}

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// The composite unique index on budgets (user_id, month) is what
	// enforces one budget row per user per month.
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Expense{},
		&models.Budget{},
	); err != nil {
		return err
	}

	log.Println("database initialized")
	return nil
}

// GetDB returns the database handle.
func GetDB() *gorm.DB {
	return DB
}
