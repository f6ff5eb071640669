package commands

import (
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ocpizza/ocpizza/internal/config"
	"github.com/ocpizza/ocpizza/internal/database"
)

var rootCmd = &cobra.Command{
	Use:   "ocpizza",
	Short: "Database toolkit for the OC Pizza chain",
	Long: `ocpizza owns the relational schema of the OC Pizza ordering system.
It migrates the schema into PostgreSQL or SQLite, populates it with
synthetic data and runs the chain's reporting queries.

Connection parameters are read from the environment (DB_DRIVER, DB_HOST,
DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSLMODE, SQLITE_PATH), with a
.env file honored when present.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadDotenvFile()
		setUpLogger()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log
// level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// openDatabase loads the configuration and connects to the configured database.
func openDatabase() (*gorm.DB, *config.Config, error) {
	conf, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.SQLitePath,
	})
	if err != nil {
		return nil, nil, err
	}
	return db, conf, nil
}
