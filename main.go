package main

import (
	"flag"
	"log"
	"strings"

	"github.com/Shr3y4sm/SpendSmart/config"
	"github.com/Shr3y4sm/SpendSmart/database"
	"github.com/Shr3y4sm/SpendSmart/middleware"
	"github.com/Shr3y4sm/SpendSmart/router"
	"github.com/Shr3y4sm/SpendSmart/service"
)

// @title SpendSmart API
// @version 1.0
// @description Personal expense tracking API with budgets, alerts, statistics and AI categorization
// @host localhost:5000
// @BasePath /

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "external config file path (optional)")
	flag.StringVar(&configFile, "c", "", "external config file path (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 5000 or :5000")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&showVersion, "v", false, "print version (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("SpendSmart v1.0.0")
		return
	}

	// built-in config plus optional external override
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("Port overridden from command line: %s", port)
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	middleware.InitAuth(cfg)

	mailer := service.NewEmailService(&cfg.Email)
	svcs := &router.Services{
		Alerts:      service.NewBudgetAlertService(mailer),
		Categorizer: service.NewCategorizer(&cfg.AI),
		Insights:    service.NewInsightsGenerator(&cfg.AI),
	}

	r := router.SetupRouter(cfg, svcs)

	log.Printf("==========================================")
	log.Printf("  SpendSmart is running")
	log.Printf("==========================================")
	log.Printf("  API:      http://localhost%s/api/", cfg.Server.Port)
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
