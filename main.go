package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mfolden/portfolio-backend/api"
	"github.com/mfolden/portfolio-backend/config"
	"github.com/mfolden/portfolio-backend/database"
	"github.com/mfolden/portfolio-backend/identity"
	"github.com/mfolden/portfolio-backend/mediahost"
	"github.com/mfolden/portfolio-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	// Optionally overlay secrets from the AWS parameter store. Values
	// already present in the environment win.
	if config.GetString(c, "CONFIG_SOURCE", "") == "ssm" {
		prefix := config.GetString(c, "SSM_PATH_PREFIX", "/portfolio/")
		if err := config.LoadSSM(context.Background(), prefix, c); err != nil {
			fmt.Printf("Error loading parameters from SSM: %v\n", err)
			os.Exit(1)
		}
	}

	dbType := config.GetString(c, "DB_TYPE", "supa")
	var connStr string
	switch dbType {
	case "supa":
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
		fmt.Println("Connecting to Supabase database...")
	default:
		fmt.Println("Unsupported DB_TYPE. Exiting...")
		os.Exit(1)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		fmt.Printf("Error enabling uuid-ossp extension: %v\n", err)
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)
	if err := currentDB.Migrate(db); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}

	if err := config.Require(c, "DESCOPE_PROJECT_ID"); err != nil {
		fmt.Printf("Error in auth configuration: %v\n", err)
		os.Exit(1)
	}
	provider, err := identity.NewDescope(c["DESCOPE_PROJECT_ID"])
	if err != nil {
		fmt.Printf("Error initializing identity provider: %v\n", err)
		os.Exit(1)
	}

	uploader, err := newMediaHost(c)
	if err != nil {
		fmt.Printf("Error initializing media host: %v\n", err)
		os.Exit(1)
	}

	deps := api.Deps{
		Database:   currentDB,
		Identity:   provider,
		Submission: services.NewSubmissionService(currentDB.UserRepo(), currentDB.ProjectRepo(), uploader),
		Contact:    services.NewContactService(c),
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(deps, c)
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

// newMediaHost picks the upload backend from MEDIA_HOST.
func newMediaHost(c map[string]string) (mediahost.Uploader, error) {
	switch config.GetString(c, "MEDIA_HOST", "s3") {
	case "s3":
		if err := config.Require(c, "S3_BUCKET", "AWS_REGION"); err != nil {
			return nil, err
		}
		return mediahost.NewS3(context.Background(), c["S3_BUCKET"], c["AWS_REGION"])
	case "cloudinary":
		if err := config.Require(c, "CLOUDINARY_CLOUD_NAME", "CLOUDINARY_UPLOAD_PRESET"); err != nil {
			return nil, err
		}
		return mediahost.NewCloudinary(c["CLOUDINARY_CLOUD_NAME"], c["CLOUDINARY_UPLOAD_PRESET"])
	default:
		return nil, fmt.Errorf("unsupported MEDIA_HOST %q", c["MEDIA_HOST"])
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
