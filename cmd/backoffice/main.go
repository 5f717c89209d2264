package main

import (
	"fmt"
	"log"

	"github.com/salesdesk/backoffice/internal/app"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "backoffice",
		Short:        "Point-of-sale back office service",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd(), createAdminCmd())

	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := app.New(cmd.Context())
			if err != nil {
				return fmt.Errorf("app.New: %w", err)
			}

			if err := application.Run(); err != nil {
				return fmt.Errorf("app.Run: %w", err)
			}

			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var (
		username string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an administrator account",
		Long: "Provision an administrator account outside the request-serving path.\n" +
			"Reads the database URI from DATABASE_URI and the password from ADMIN_PASSWORD.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.CreateAdmin(cmd.Context(), username, role)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username for the new account")
	cmd.Flags().StringVar(&role, "role", "admin", "role for the new account (admin or attendant)")
	cmd.MarkFlagRequired("username") //nolint:errcheck

	return cmd
}
