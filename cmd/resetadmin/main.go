package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/danutama/loan-tracker/internal/config"
	"github.com/danutama/loan-tracker/internal/logging"
	"github.com/danutama/loan-tracker/internal/repository"
	"github.com/danutama/loan-tracker/internal/service"
)

var (
	flagEmail    string
	flagPassword string
	flagName     string
	flagYes      bool
)

// resetadmin updates the admin account's credentials, or creates the admin
// account when none exists. It is the only way to obtain an admin: the web
// registration flow always produces borrower accounts.
var rootCmd = &cobra.Command{
	Use:   "resetadmin",
	Short: "Reset or create the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagYes {
			fmt.Printf("This will set the password for the admin account with email: %s\n", flagEmail)
			if !confirm("Proceed?") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()

		accounts := service.NewAccountService(repository.NewUserRepository(db), logging.New(cfg.Logging))

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		admin, err := accounts.ResetAdmin(ctx, flagName, flagEmail, flagPassword)
		if err != nil {
			return fmt.Errorf("resetting admin: %w", err)
		}

		fmt.Printf("Admin account ready: %s (%s)\n", admin.Email, admin.ID)
		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func main() {
	rootCmd.Flags().StringVar(&flagEmail, "email", "admin@example.com", "email for the admin account")
	rootCmd.Flags().StringVar(&flagPassword, "password", "", "new admin password")
	rootCmd.Flags().StringVar(&flagName, "name", "Administrator", "display name when creating a new admin")
	rootCmd.Flags().BoolVar(&flagYes, "yes", false, "skip the confirmation prompt")
	_ = rootCmd.MarkFlagRequired("password")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
