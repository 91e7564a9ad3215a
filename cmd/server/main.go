package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/eylercore/tracker/internal/db"
	"github.com/eylercore/tracker/internal/handlers"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/cors"
)

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Error loading .env file: %v", err)
		}
	}

	validateEnv()
	dbConn := initDB()
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()

	server := initServer(initHandler(dbConn))
	startServer(server)
}

func validateEnv() {
	if os.Getenv("SERVER_PORT") == "" {
		log.Fatal("Environment variable SERVER_PORT must be set")
	}
	if len(os.Getenv("SESSION_SECRET")) < 32 {
		log.Fatal("SESSION_SECRET must be at least 32 characters")
	}
	if os.Getenv("DB_DRIVER") == "postgres" {
		requiredEnvVars := []string{
			"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
			"POSTGRES_HOST", "POSTGRES_PORT",
		}
		for _, env := range requiredEnvVars {
			if os.Getenv(env) == "" {
				log.Fatalf("Environment variable %s must be set", env)
			}
		}
	}
}

func initDB() *sql.DB {
	driver := os.Getenv("DB_DRIVER")
	var dsn string
	switch driver {
	case "postgres":
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("POSTGRES_HOST"), os.Getenv("POSTGRES_USER"),
			os.Getenv("POSTGRES_PASSWORD"), os.Getenv("POSTGRES_DB"),
			os.Getenv("POSTGRES_PORT"))
	case "", "sqlite3":
		driver = "sqlite3"
		dsn = os.Getenv("SQLITE_PATH")
		if dsn == "" {
			dsn = "tracker.db"
		}
		dsn += "?_foreign_keys=on"
	default:
		log.Fatalf("Unsupported DB_DRIVER: %s", driver)
	}

	dbConn, err := db.Connect(driver, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	return dbConn
}

func initHandler(dbConn *sql.DB) *handlers.Handler {
	return &handlers.Handler{
		Users:    db.NewUserRepository(dbConn),
		Projects: db.NewProjectRepository(dbConn),
		Tasks:    db.NewTaskRepository(dbConn),
		Tags:     db.NewTagRepository(dbConn),
		Sessions: handlers.NewSessionManager(os.Getenv("SESSION_SECRET"), 24*time.Hour),
		// allow max 5 credential attempts per 15 minutes from the same IP
		RateLimiter: handlers.NewRateLimiter(5, 15*time.Minute),
		Hub:         handlers.NewHub(),
	}
}

func initServer(handler *handlers.Handler) *http.Server {
	var root http.Handler = handler.Router()
	root = gorillahandlers.RecoveryHandler()(root)
	root = gorillahandlers.LoggingHandler(os.Stdout, root)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c := cors.New(cors.Options{
			AllowedOrigins:   strings.Split(origins, ","),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowCredentials: true,
		})
		root = c.Handler(root)
	}

	return &http.Server{
		Addr:    ":" + os.Getenv("SERVER_PORT"),
		Handler: root,
	}
}

func startServer(server *http.Server) {
	log.Printf("Starting server on %s", server.Addr)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
