package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Basel-Alghamdi/HRMS/internal/config"
	appHTTP "github.com/Basel-Alghamdi/HRMS/internal/handler/http"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/clock"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/database"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/jwt"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/storage"
	"github.com/Basel-Alghamdi/HRMS/internal/repository/postgresql"
	attendanceService "github.com/Basel-Alghamdi/HRMS/internal/service/attendance"
	"github.com/Basel-Alghamdi/HRMS/internal/service/file"
	leaveService "github.com/Basel-Alghamdi/HRMS/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, database.PoolSettings{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	balanceRepo := postgresql.NewBalanceRepository(db)
	requestRepo := postgresql.NewRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	systemClock := clock.System{}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)
	ledgerService := leaveService.NewLedgerService(balanceRepo, employeeRepo)
	requestService := leaveService.NewRequestService(
		requestRepo,
		holidayRepo,
		employeeRepo,
		ledgerService,
		systemClock,
		cfg.Attendance.WeekendDays,
	)
	attendanceSvc, err := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		holidayRepo,
		requestRepo,
		systemClock,
		attendanceService.ShiftConfig{
			ShiftStart:   cfg.Attendance.ShiftStart,
			ShiftEnd:     cfg.Attendance.ShiftEnd,
			GraceMinutes: cfg.Attendance.GraceMinutes,
			WeekendDays:  cfg.Attendance.WeekendDays,
		},
	)
	if err != nil {
		log.Fatal("Failed to initialize attendance service:", err)
	}

	leaveHandler := appHTTP.NewLeaveHandler(requestService, ledgerService, fileService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, systemClock)

	router := appHTTP.NewRouter(jwtService, leaveHandler, attendanceHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
