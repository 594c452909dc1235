package analytics

import "context"

type AnalyticsService interface {
	// MyDashboard builds the dashboard of the authenticated user
	MyDashboard(ctx context.Context) (DashboardData, error)

	// EmployeeDashboard builds the dashboard of any employee (admin)
	EmployeeDashboard(ctx context.Context, userID string) (DashboardData, error)

	// EmployeeStats returns sequential-pairing hour totals of one employee
	EmployeeStats(ctx context.Context, req EmployeeStatsRequest) (EmployeeStats, error)

	// OrgStats aggregates hours, cost and activity across employees
	OrgStats(ctx context.Context, filter OrgStatsFilter) (OrgStats, error)

	// Heatmap returns the daily intensity grid of OrgStats
	Heatmap(ctx context.Context, filter OrgStatsFilter) ([]HeatmapCell, error)

	// TodaySummary lists every employee's session for the current civil day
	TodaySummary(ctx context.Context) (TodaySummary, error)
}
