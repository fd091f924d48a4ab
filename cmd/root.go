package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/avisionlabs/avision/config"
	"github.com/avisionlabs/avision/store"
)

// Version is the application version.
const Version = "0.1.0"

var (
	// Store is the metadata store shared by subcommands
	Store *store.Store
	// Cfg is the resolved configuration
	Cfg config.Config

	flagDriver     string
	flagSQLitePath string
	flagHost       string
	flagPort       int
	flagUser       string
	flagPassword   string
	flagDatabase   string
	flagConfidence float64
)

var rootCmd = &cobra.Command{
	Use:     "avision",
	Short:   "Photo analysis metadata store: ingest, search and report on detection results",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Printf("Info: No .env file found or error loading: %v", err)
		}

		var err error
		Cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		// explicit flags override the environment
		if cmd.Flags().Changed("driver") {
			Cfg.Driver = flagDriver
		}
		if cmd.Flags().Changed("db") {
			Cfg.SQLitePath = flagSQLitePath
		}
		if cmd.Flags().Changed("host") {
			Cfg.MySQL.Host = flagHost
		}
		if cmd.Flags().Changed("port") {
			Cfg.MySQL.Port = flagPort
		}
		if cmd.Flags().Changed("user") {
			Cfg.MySQL.User = flagUser
		}
		if cmd.Flags().Changed("password") {
			Cfg.MySQL.Password = flagPassword
		}
		if cmd.Flags().Changed("database") {
			Cfg.MySQL.Database = flagDatabase
		}
		if cmd.Flags().Changed("confidence") {
			Cfg.ConfidenceThreshold = flagConfidence
		}
		if Cfg.Driver != config.DriverSQLite && Cfg.Driver != config.DriverMySQL {
			return fmt.Errorf("unsupported database driver %q", Cfg.Driver)
		}

		Store, err = store.New(Cfg)
		if err != nil {
			return fmt.Errorf("failed to open metadata store: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if Store != nil {
			if err := Store.Close(); err != nil {
				log.Printf("Warning: failed to close store: %v", err)
			}
		}
	},
}

func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDriver, "driver", config.DriverSQLite, "Database driver: sqlite or mysql")
	rootCmd.PersistentFlags().StringVar(&flagSQLitePath, "db", "photos.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "localhost", "MySQL host")
	rootCmd.PersistentFlags().IntVar(&flagPort, "port", 3306, "MySQL port")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "root", "MySQL username")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "MySQL password")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "database", "photo_analysis", "MySQL database name")
	rootCmd.PersistentFlags().Float64Var(&flagConfidence, "confidence", 0.25, "Confidence threshold for ingested detections")
}
