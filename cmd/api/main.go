package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/config"
	appHTTP "github.com/KilluwheQT/qrams2.0/internal/handler/http"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/cron"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/database"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/jwt"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/qrtoken"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/sse"
	"github.com/KilluwheQT/qrams2.0/internal/repository/postgresql"
	attendanceService "github.com/KilluwheQT/qrams2.0/internal/service/attendance"
	eventService "github.com/KilluwheQT/qrams2.0/internal/service/event"
	"github.com/KilluwheQT/qrams2.0/internal/service/qrdisplay"
	reportService "github.com/KilluwheQT/qrams2.0/internal/service/report"
	sessionService "github.com/KilluwheQT/qrams2.0/internal/service/session"
	studentService "github.com/KilluwheQT/qrams2.0/internal/service/student"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	loc := cfg.Location()

	eventRepo := postgresql.NewEventRepository(db)
	studentRepo := postgresql.NewStudentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.SessionExpiration)
	tokener := qrtoken.New(cfg.QR.ValiditySeconds, nil)
	hub := sse.NewHub()

	events := eventService.NewEventService(eventRepo, attendanceRepo, loc)
	students := studentService.NewStudentService(studentRepo)
	sessions := sessionService.NewSessionService(studentRepo, JWTService)
	attendances := attendanceService.NewAttendanceService(attendanceRepo, eventRepo, studentRepo, tokener, loc)
	displays := qrdisplay.NewDisplayService(eventRepo, tokener, hub, cfg.QR.RefreshSeconds)
	reports := reportService.NewReportService(attendances, eventRepo, studentRepo, loc)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("event-status-refresh", time.Minute, events.RefreshStatuses)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Session:    appHTTP.NewSessionHandler(sessions),
		Event:      appHTTP.NewEventHandler(events),
		Student:    appHTTP.NewStudentHandler(students),
		Attendance: appHTTP.NewAttendanceHandler(attendances),
		QR:         appHTTP.NewQRHandler(displays),
		Report:     appHTTP.NewReportHandler(reports),
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
