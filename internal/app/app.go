package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/config"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/auth"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/directory"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/payroll"
	appHTTP "github.com/sedes-asistencia/asistencia-backend-go/internal/handler/http"
	awsConfig "github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/aws"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/cron"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/database"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/holiday"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/jwt"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/queue"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/storage"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/telemetry"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/repository/postgresql"
	analyticsService "github.com/sedes-asistencia/asistencia-backend-go/internal/service/analytics"
	attendanceService "github.com/sedes-asistencia/asistencia-backend-go/internal/service/attendance"
	authService "github.com/sedes-asistencia/asistencia-backend-go/internal/service/auth"
	directoryService "github.com/sedes-asistencia/asistencia-backend-go/internal/service/directory"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/service/file"
	payrollService "github.com/sedes-asistencia/asistencia-backend-go/internal/service/payroll"
)

const Version = "v1.0.0"

// App holds the wired services shared by the API server and the CLI.
type App struct {
	Config   *config.Config
	DB       *database.DB
	Location *time.Location
	Holidays *holiday.Calendar
	Storage  storage.FileStorage
	JWT      *jwt.JWTService

	Directory  directory.DirectoryService
	Auth       auth.AuthService
	Attendance attendance.AttendanceService
	Analytics  analytics.AnalyticsService
	Payroll    payroll.PayrollService

	shutdownTracer func(context.Context) error
}

// SetupLogger installs the JSON slog handler as the process default.
func SetupLogger(cfg *config.Config) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(
		slog.String("app", cfg.Telemetry.ServiceName),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)
}

// New connects to the database and builds every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	traceOpts := telemetry.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.OTLPInsecure,
	}
	if cfg.Telemetry.Stdout {
		traceOpts.Writer = os.Stdout
	}
	shutdown, err := telemetry.InitTracer(ctx, traceOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	a.shutdownTracer = shutdown

	a.Location, err = civildate.Load(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	a.Holidays, err = holiday.Load(cfg.Holidays.File)
	if err != nil {
		return nil, err
	}

	a.DB, err = database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:        int32(cfg.Database.MaxConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, a.DB); err != nil {
			a.Close(ctx)
			return nil, err
		}
	}

	a.Storage, err = newStorage(ctx, cfg.Storage)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg.Queue)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.JWT, err = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION: %w", err)
	}

	userRepo := postgresql.NewUserRepository(a.DB)
	sedeRepo := postgresql.NewSedeRepository(a.DB)
	recordRepo := postgresql.NewRecordRepository(a.DB)
	txManager := postgresql.NewTxManager(a.DB)

	clock := civildate.SystemClock{}
	engine := analyticsService.NewEngine(a.Holidays, a.Location)
	fileService := file.NewFileService(a.Storage)

	a.Directory = directoryService.NewDirectoryService(txManager, userRepo, sedeRepo, recordRepo, fileService)
	a.Auth = authService.NewAuthService(userRepo, a.Directory, a.JWT)
	a.Attendance = attendanceService.NewAttendanceService(recordRepo, userRepo, sedeRepo, engine, fileService, publisher, clock)
	a.Analytics = analyticsService.NewAnalyticsService(recordRepo, userRepo, sedeRepo, engine, clock, cfg.Payroll.HourlyRate)
	a.Payroll = payrollService.NewPayrollService(recordRepo, userRepo, engine, fileService, clock, cfg.Payroll.HourlyRate)

	return a, nil
}

// Handlers builds the HTTP handlers over the wired services.
func (a *App) Handlers() appHTTP.Handlers {
	return appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(a.Auth),
		Attendance: appHTTP.NewAttendanceHandler(a.Attendance),
		Directory:  appHTTP.NewDirectoryHandler(a.Directory),
		Analytics:  appHTTP.NewAnalyticsHandler(a.Analytics),
		Payroll:    appHTTP.NewPayrollHandler(a.Payroll),
	}
}

// Scheduler registers the background jobs on a new scheduler. It is not
// started.
func (a *App) Scheduler() (*cron.Scheduler, error) {
	s := cron.NewScheduler(a.Location)
	jobs := cron.NewAttendanceJobs(a.Payroll, a.Analytics, civildate.SystemClock{}, a.Location)
	if err := jobs.RegisterJobs(s, a.Config.Cron.PayrollArchiveSpec, a.Config.Cron.OpenSessionSpec); err != nil {
		return nil, err
	}
	return s, nil
}

// UploadsDir is the directory served under /uploads, empty unless photos are
// stored on local disk.
func (a *App) UploadsDir() string {
	if local, ok := a.Storage.(*storage.LocalStorage); ok {
		return local.BasePath()
	}
	return ""
}

func (a *App) Close(ctx context.Context) {
	if a.DB != nil {
		a.DB.Close()
	}
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(ctx); err != nil {
			slog.Error("Failed to shut down tracer", "error", err)
		}
	}
}

// ==================== HELPER FUNCTIONS ====================

func newStorage(ctx context.Context, cfg config.StorageConfig) (storage.FileStorage, error) {
	switch cfg.Type {
	case "local":
		local, err := storage.NewLocalStorage(cfg.BasePath, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return local, nil
	case "s3":
		awsCfg, err := awsConfig.NewConfig(ctx, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			// custom endpoints (MinIO, LocalStack) need path-style addressing
			o.UsePathStyle = cfg.S3Endpoint != ""
		})
		return storage.NewS3Storage(client, cfg.S3Bucket, cfg.S3Prefix), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func newPublisher(ctx context.Context, cfg config.QueueConfig) (queue.Publisher, error) {
	if cfg.SQSQueueURL == "" {
		return queue.NoopPublisher{}, nil
	}
	awsCfg, err := awsConfig.NewConfig(ctx, cfg.SQSRegion, cfg.SQSEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return queue.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL), nil
}
