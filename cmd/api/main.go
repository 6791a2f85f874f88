package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-reqdesk/internal/common/api"
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/database"
	"go-reqdesk/internal/features/approval"
	"go-reqdesk/internal/features/audit"
	"go-reqdesk/internal/features/auth"
	"go-reqdesk/internal/features/department"
	"go-reqdesk/internal/features/file"
	"go-reqdesk/internal/features/notification"
	"go-reqdesk/internal/features/reminder"
	"go-reqdesk/internal/features/report"
	"go-reqdesk/internal/features/request"
	"go-reqdesk/internal/features/track"
	"go-reqdesk/internal/features/user"
	"go-reqdesk/internal/features/vehicle"
	"go-reqdesk/internal/features/workflow"
	"go-reqdesk/internal/logger"
	"go-reqdesk/internal/middleware"
	"go-reqdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d route groups\n", len(routes))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// requestFinder routes attachment existence checks to the right collection.
type requestFinder struct {
	requests request.RequestRepository
	vehicles vehicle.VehicleRepository
}

func (f *requestFinder) Exists(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) (bool, error) {
	switch formType {
	case workflow.FormTypeItemRequest:
		req, err := f.requests.FindByID(ctx, requestID.Hex())
		return req != nil, err
	case workflow.FormTypeVehicleRequest:
		req, err := f.vehicles.FindByID(ctx, requestID.Hex())
		return req != nil, err
	}
	return false, nil
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			user.NewUserRepository,
			department.NewDepartmentRepository,
			workflow.NewWorkflowRepository,
			approval.NewApprovalRepository,
			request.NewRequestRepository,
			vehicle.NewVehicleRepository,
			notification.NewNotificationRepository,
			audit.NewAuditRepository,
			file.NewFileRepository,

			// Services
			user.NewUserService,
			department.NewDepartmentService,
			workflow.NewWorkflowService,
			approval.NewEngine,
			auth.NewAuthService,
			request.NewRequestService,
			vehicle.NewVehicleService,
			notification.NewNotificationService,
			audit.NewAuditService,
			file.NewFileService,
			report.NewReportService,
			reminder.NewReminderService,
			track.NewTrackService,

			// Interface adapters to satisfy Fx without circular imports
			func(r user.UserRepository) approval.UserDirectory { return r },
			func(r user.UserRepository) audit.UserFinder { return r },
			func(r user.UserRepository) notification.UserEmailFinder { return r },
			func(r user.UserRepository) request.ApproverDirectory { return r },
			func(r department.DepartmentRepository) approval.DepartmentDirectory { return r },
			func(s workflow.WorkflowService) approval.WorkflowSource { return s },
			func(rr request.RequestRepository, vr vehicle.VehicleRepository) file.RequestFinder {
				return &requestFinder{requests: rr, vehicles: vr}
			},

			// Controllers
			auth.NewAuthController,
			user.NewUserController,
			department.NewDepartmentController,
			workflow.NewWorkflowController,
			request.NewRequestController,
			vehicle.NewVehicleController,
			notification.NewNotificationController,
			audit.NewAuditController,
			file.NewFileController,
			report.NewReportController,
			track.NewTrackController,

			// API route groups
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(department.NewDepartmentApi),
			AsRoute(workflow.NewWorkflowApi),
			AsRoute(request.NewRequestApi),
			AsRoute(vehicle.NewVehicleApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(file.NewFileApi),
			AsRoute(report.NewReportApi),
			AsRoute(track.NewTrackApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, reminders reminder.ReminderService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return reminders.InitializeScheduler()
					},
					OnStop: func(ctx context.Context) error {
						reminders.StopScheduler()
						return nil
					},
				})
			},
		),
	)

	app.Run()
}
