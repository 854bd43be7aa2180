package commands

import (
	"github.com/spf13/cobra"

	"shop-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users, products, categories and orders tables if missing",
	Long: `Apply the bundled schema and exit. The schema only uses
CREATE TABLE IF NOT EXISTS, so running it repeatedly is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		return db.Migrate(cmd.Context())
	},
}
