package main

import (
	"context"
	"os"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/app"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/config"
	"github.com/spf13/cobra"
)

var application *app.App

var rootCmd = &cobra.Command{
	Use:          "asistenciactl",
	Short:        "Operations tool for the attendance backend",
	Long:         `asistenciactl runs maintenance tasks against the attendance database and file storage.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			application.Close(context.Background())
		}
	},
}

// withApp loads configuration and connects to the database before RunE.
func withApp(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		app.SetupLogger(cfg)
		application, err = app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return run(cmd, args)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(payrollCmd)
	rootCmd.AddCommand(cronCmd)
	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(distanceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
