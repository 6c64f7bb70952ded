package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"thesis_hub/internal/api"
	"thesis_hub/internal/app/service"
	"thesis_hub/internal/common/security"
	"thesis_hub/internal/domain/repository"
	"thesis_hub/internal/platform/cache"
	"thesis_hub/internal/platform/config"
	"thesis_hub/internal/platform/database"
)

func main() {
	config.Load()
	fmt.Println("Configuration loaded.")

	security.InitJWT()
	fmt.Println("JWT initialized.")

	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	userRepo := repository.NewPgUserRepository(database.DB)
	studentRepo := repository.NewPgStudentRepository(database.DB)
	supervisorRepo := repository.NewPgSupervisorRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	commentRepo := repository.NewPgCommentRepository(database.DB)
	calendarRepo := repository.NewPgCalendarRepository(database.DB)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, studentRepo, supervisorRepo)
	submissionService := service.NewSubmissionService(
		submissionRepo,
		studentRepo,
		cache.RDB,
		config.AppConfig.StatusBoardCacheKey,
		config.AppConfig.StatusBoardCacheTTL,
	)
	biddingService := service.NewBiddingService(studentRepo, submissionRepo)
	supervisionService := service.NewSupervisionService(studentRepo, supervisorRepo)
	commentService := service.NewCommentService(commentRepo, submissionRepo, userRepo)
	calendarService := service.NewCalendarService(calendarRepo)

	router := api.NewRouter(
		authService,
		userService,
		submissionService,
		biddingService,
		supervisionService,
		commentService,
		calendarService,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
