package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akshay-builds/techkart/api"
	appconfig "github.com/akshay-builds/techkart/config"
	"github.com/akshay-builds/techkart/database"
	"github.com/akshay-builds/techkart/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := appconfig.New()

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	gormConfig := &gorm.Config{
		Logger: newLogger,
		// Unique violations become gorm.ErrDuplicatedKey on every driver,
		// which the handlers translate into duplicate-name/email notices.
		TranslateError: true,
	}

	var db *gorm.DB
	var err error

	dbType := appconfig.GetString(c, "DB_TYPE", "sqlite")
	fmt.Printf("DB_TYPE: %s\n", dbType)
	switch dbType {
	case "postgres":
		sslMode := "disable"
		if appconfig.GetBool(c, "DB_SSL", false) {
			sslMode = "require"
		}
		connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			appconfig.GetString(c, "DB_HOST", "localhost"),
			appconfig.GetString(c, "DB_USER", "techkart"),
			appconfig.GetString(c, "DB_PASSWORD", ""),
			appconfig.GetString(c, "DB_NAME", "techkart"),
			appconfig.GetString(c, "DB_PORT", "5432"),
			sslMode,
		)
		fmt.Println("Connecting to Postgres database...")
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  connStr,
			PreferSimpleProtocol: true,
		}), gormConfig)
	case "sqlite":
		path := appconfig.GetString(c, "SQLITE_PATH", filepath.Join("instance", "dev.db"))
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			fmt.Printf("Error creating database directory: %v\n", mkErr)
			os.Exit(1)
		}
		fmt.Printf("Opening SQLite database at %s...\n", path)
		db, err = gorm.Open(sqlite.Open(path), gormConfig)
	default:
		fmt.Println("Unsupported DB_TYPE. Exiting...")
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}

	// One-time seed at startup instead of a per-request check, so two
	// racing first requests can no longer both try to create the admin.
	adminEmail := appconfig.GetString(c, "ADMIN_EMAIL", "admin@example.com")
	adminPassword := appconfig.GetString(c, "ADMIN_PASSWORD", "admin123")
	if err := database.Seed(db, adminEmail, adminPassword); err != nil {
		fmt.Printf("Error seeding database: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.NewLocalStore(appconfig.GetString(c, "UPLOAD_DIR", "uploads"))
	if err != nil {
		fmt.Printf("Error preparing upload directory: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, store)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
