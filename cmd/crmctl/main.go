package main

import (
	"fmt"
	"os"

	"real-estate-crm/internal/config"
	"real-estate-crm/internal/database"
	"real-estate-crm/internal/models"
	"real-estate-crm/internal/seed"
	"real-estate-crm/internal/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "crmctl",
		Short: "Operational CLI for the CRM backend",
	}

	rootCmd.AddCommand(
		seedCmd(),
		grantAdminCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase loads the configuration and connects with the schema
// migrated, the same way the API server boots.
func openDatabase() (*gorm.DB, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := database.InitSchema(db); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return db, nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo data into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := seed.Run(db); err != nil {
				return err
			}
			fmt.Println("Demo data loaded.")
			fmt.Println("Admin login: admin@example.com / admin123")
			return nil
		},
	}
}

func grantAdminCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "grant-admin",
		Short: "Promote an existing account to the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			users := services.NewUserService(db)
			user, err := users.GrantRole(email, models.RoleAdmin, "crmctl")
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("no account with email %s", email)
			}

			fmt.Printf("Granted admin role to %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the account to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
