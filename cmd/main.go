package main

import (
	"context"
	"os"

	"product-catalog/cmd/bootstrap"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := bootstrap.New()
				if err != nil {
					return err
				}
				return app.Run(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Migrate the schema and seed roles and the admin account",
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := bootstrap.New()
				if err != nil {
					return err
				}
				defer app.Close()
				return app.Migrate(cmd.Context())
			},
		},
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}
