package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/payroll"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/fixtures"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/geo"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/holiday"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/repository/postgresql"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: withApp(func(cmd *cobra.Command, args []string) error {
		if err := postgresql.Migrate(cmd.Context(), application.DB); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")
		return nil
	}),
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default sedes and users",
	Long:  `Create the default sedes and users. Existing sedes (by name) and users (by PIN) are left untouched.`,
	RunE: withApp(func(cmd *cobra.Command, args []string) error {
		result, err := fixtures.Seed(cmd.Context(), application.Directory, fixtures.DefaultSedes, fixtures.DefaultUsers)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d sede(s) and %d user(s)\n", result.SedesCreated, result.UsersCreated)
		return nil
	}),
}

// ==================== PAYROLL ====================

var payrollCmd = &cobra.Command{
	Use:     "payroll",
	Aliases: []string{"nomina"},
	Short:   "Payroll exports",
}

var payrollExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a payroll export to a file",
	RunE: withApp(func(cmd *cobra.Command, args []string) error {
		req := payrollRequest(cmd)
		export, err := application.Payroll.Export(cmd.Context(), req)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = export.Filename
		}
		if err := os.WriteFile(out, export.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(export.Data))
		return nil
	}),
}

var payrollArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Store an XLSX payroll export in file storage",
	Long:  `Store an XLSX payroll export in file storage. With --last-week the previous Monday to Sunday is archived, as the weekly job does.`,
	RunE: withApp(func(cmd *cobra.Command, args []string) error {
		req := payrollRequest(cmd)
		if lastWeek, _ := cmd.Flags().GetBool("last-week"); lastWeek {
			req = payroll.LastWeek(time.Now(), application.Location)
		}
		path, err := application.Payroll.Archive(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", path)
		return nil
	}),
}

func payrollRequest(cmd *cobra.Command) payroll.ExportRequest {
	optional := func(name string) *string {
		v, _ := cmd.Flags().GetString(name)
		if v == "" {
			return nil
		}
		return &v
	}
	format, _ := cmd.Flags().GetString("format")
	return payroll.ExportRequest{
		Start:  optional("start"),
		End:    optional("end"),
		SedeID: optional("sede"),
		UserID: optional("user"),
		Format: payroll.Format(format),
	}
}

// ==================== CRON ====================

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Inspect and run scheduled jobs",
}

var cronListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered jobs and their next run",
	RunE: withApp(func(cmd *cobra.Command, args []string) error {
		s, err := application.Scheduler()
		if err != nil {
			return err
		}
		// entries only get a next run once the scheduler is running
		s.Start()
		defer s.Stop()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "JOB\tSPEC\tNEXT RUN")
		for _, job := range s.Jobs() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", job.Name, job.Spec, s.Next(job.Name).In(application.Location).Format(time.RFC3339))
		}
		return w.Flush()
	}),
}

var cronRunCmd = &cobra.Command{
	Use:   "run [job]",
	Short: "Run one job, or every job, immediately",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string) error {
		s, err := application.Scheduler()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			return s.RunJob(cmd.Context(), args[0])
		}
		return s.RunOnce(cmd.Context())
	}),
}

// ==================== OFFLINE TOOLS ====================

var holidaysCmd = &cobra.Command{
	Use:   "holidays [year]",
	Short: "List the configured holidays",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		cal, err := holiday.Load(file)
		if err != nil {
			return err
		}

		years := cal.Years()
		if len(args) == 1 {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			years = []int{year}
		}

		loc := civildate.Bogota()
		for _, year := range years {
			dates := cal.Holidays(year)
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %d holiday(s)\n", year, len(dates))
			for _, d := range dates {
				t, err := civildate.ParseDate(d, loc)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", d, t.Weekday())
			}
		}
		return nil
	},
}

var distanceCmd = &cobra.Command{
	Use:   "distance <lat1> <lng1> <lat2> <lng2>",
	Short: "Great-circle distance in meters between two points",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var coords [4]float64
		for i, arg := range args {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("invalid coordinate %q", arg)
			}
			coords[i] = v
		}
		a := geo.Point{Lat: coords[0], Lng: coords[1]}
		b := geo.Point{Lat: coords[2], Lng: coords[3]}
		for _, p := range []geo.Point{a, b} {
			if err := p.Validate(); err != nil {
				return err
			}
		}

		distance := geo.DistanceMeters(a, b)
		fmt.Fprintf(cmd.OutOrStdout(), "%.2f m\n", distance)
		if radius, _ := cmd.Flags().GetFloat64("radius"); radius > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "within %.0f m: %t\n", radius, geo.IsWithinRadius(a, b, radius))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{payrollExportCmd, payrollArchiveCmd} {
		c.Flags().String("start", "", "first civil date, YYYY-MM-DD")
		c.Flags().String("end", "", "last civil date, YYYY-MM-DD")
		c.Flags().String("sede", "", "only employees of this sede id")
		c.Flags().String("user", "", "only this user id")
	}
	payrollExportCmd.Flags().String("format", string(payroll.FormatCSV), "csv or xlsx")
	payrollExportCmd.Flags().StringP("out", "o", "", "output file (defaults to the export filename)")
	payrollArchiveCmd.Flags().Bool("last-week", false, "archive the previous Monday to Sunday")
	payrollCmd.AddCommand(payrollExportCmd, payrollArchiveCmd)

	cronCmd.AddCommand(cronListCmd, cronRunCmd)

	holidaysCmd.Flags().String("file", "", "YAML holiday table (defaults to the embedded one)")
	distanceCmd.Flags().Float64("radius", 0, "also report whether the first point is within this radius of the second")
}

