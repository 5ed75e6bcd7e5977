package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/groundworks-ops/fleetrecon-go/internal/config"
	appHTTP "github.com/groundworks-ops/fleetrecon-go/internal/handler/http"
	"github.com/groundworks-ops/fleetrecon-go/internal/pkg/database"
	"github.com/groundworks-ops/fleetrecon-go/internal/repository/postgresql"
	billingService "github.com/groundworks-ops/fleetrecon-go/internal/service/billing"
	jobSiteService "github.com/groundworks-ops/fleetrecon-go/internal/service/jobsite"
	"github.com/groundworks-ops/fleetrecon-go/internal/service/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, int32(cfg.Database.MaxConns), int32(cfg.Database.MinConns))
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	runRepo := postgresql.NewRunRepository(db)
	jobSiteRepo := postgresql.NewJobSiteRepository(db)
	ruleRepo := postgresql.NewAllocationRuleRepository(db)

	maxShift := time.Duration(cfg.Pipeline.MaxShiftHours) * time.Hour
	runService := pipeline.NewRunService(runRepo, jobSiteRepo, ruleRepo, maxShift)
	jobSiteSvc := jobSiteService.NewJobSiteService(jobSiteRepo)
	billingSvc := billingService.NewBillingService(ruleRepo)

	runHandler := appHTTP.NewRunHandler(runService)
	jobSiteHandler := appHTTP.NewJobSiteHandler(jobSiteSvc)
	billingHandler := appHTTP.NewBillingHandler(billingSvc)

	router := appHTTP.NewRouter(cfg, runHandler, jobSiteHandler, billingHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
