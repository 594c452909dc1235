package payroll

import "context"

type PayrollService interface {
	// Generate computes one row per employee for the request window
	Generate(ctx context.Context, req ExportRequest) ([]Row, error)

	// Export renders Generate in the requested format
	Export(ctx context.Context, req ExportRequest) (ExportFile, error)

	// Archive renders the XLSX export and stores it, returning the storage path
	Archive(ctx context.Context, req ExportRequest) (string, error)
}
