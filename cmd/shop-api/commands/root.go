package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"shop-api/internal/config"
)

// cfg starts from the environment; flags override it.
var cfg = config.NewConfig()

var rootCmd = &cobra.Command{
	Use:   "shop-api",
	Short: "CRUD API for users, products, categories and orders",
	Long: `shop-api serves JSON CRUD endpoints under /api/v1 for users, products,
categories and orders, backed by PostgreSQL.

Every flag can also be set through the environment (HTTP_PORT, DB_HOST,
DB_PORT, DB_DATABASE, DB_USER, DB_PASSWORD, REDIS_ADDR, ...).`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		}))
		slog.SetDefault(logger)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.DBHost, "db_host", cfg.DBHost, "Postgres host")
	flags.IntVar(&cfg.DBPort, "db_port", cfg.DBPort, "Postgres port")
	flags.StringVar(&cfg.DBDatabase, "db_database", cfg.DBDatabase, "Postgres database")
	flags.StringVar(&cfg.DBUser, "db_user", cfg.DBUser, "Database user")
	flags.StringVar(&cfg.DBPassword, "db_password", cfg.DBPassword, "Database password")
	flags.Int32Var(&cfg.DBMaxConns, "db-max-conns", cfg.DBMaxConns, "Maximum pool connections (0 = driver default)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
