package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/attendance"
	monitorService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/monitor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		fmt.Println("Error loading timezone:", err)
		return
	}

	sessionRepo := postgresql.NewSessionRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	attendanceSvc := attendanceService.NewAttendanceService(sessionRepo, locationRepo, loc)
	monitorSvc := monitorService.NewMonitorService(locationRepo, hub, cfg.Monitor.ThresholdKm)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	monitorHandler := appHTTP.NewMonitorHandler(monitorSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		monitorHandler,
		eventsHandler,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
