package reminder

import (
	"context"
	"fmt"
	"time"

	common_models "go-reqdesk/internal/common/models"
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/features/approval"
	"go-reqdesk/internal/features/notification"
	"go-reqdesk/internal/features/request"
	"go-reqdesk/internal/features/workflow"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService nags approvers about records that have sat pending past the
// configured age. Runs on a cron schedule; each run is best-effort.
type ReminderService interface {
	InitializeScheduler() error
	StopScheduler()
	RunOnce(ctx context.Context) (int, error)
}

type ReminderServiceImpl struct {
	Approvals     approval.ApprovalRepository
	Users         request.ApproverDirectory
	Notifications notification.NotificationService
	Config        *config.Config
	Logger        *zap.Logger

	scheduler *cron.Cron
}

func NewReminderService(
	approvals approval.ApprovalRepository,
	users request.ApproverDirectory,
	notifications notification.NotificationService,
	cfg *config.Config,
	logger *zap.Logger,
) ReminderService {
	return &ReminderServiceImpl{
		Approvals:     approvals,
		Users:         users,
		Notifications: notifications,
		Config:        cfg,
		Logger:        logger,
	}
}

func (s *ReminderServiceImpl) InitializeScheduler() error {
	if s.Config.ReminderSchedule == "" {
		s.Logger.Info("reminder scheduler disabled, no schedule configured")
		return nil
	}
	if _, err := cron.ParseStandard(s.Config.ReminderSchedule); err != nil {
		return fmt.Errorf("invalid reminder schedule: %w", err)
	}

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.Config.ReminderSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		count, err := s.RunOnce(ctx)
		if err != nil {
			s.Logger.Error("reminder run failed", zap.Error(err))
			return
		}
		s.Logger.Info("reminder run finished", zap.Int("reminders_sent", count))
	})
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.Logger.Info("reminder scheduler started", zap.String("schedule", s.Config.ReminderSchedule))
	return nil
}

func (s *ReminderServiceImpl) StopScheduler() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RunOnce sends one reminder per stale pending record to everyone the
// record's approver rule could match.
func (s *ReminderServiceImpl) RunOnce(ctx context.Context) (int, error) {
	maxAge := time.Duration(s.Config.PendingMaxAgeHrs) * time.Hour
	if maxAge <= 0 {
		maxAge = 48 * time.Hour
	}
	cutoff := time.Now().Add(-maxAge)

	records, err := s.Approvals.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range records {
		rec := &records[i]
		for _, u := range s.targetsFor(ctx, rec) {
			s.Notifications.Notify(ctx, u.ID, notification.NotificationTypeReminder,
				"Pending approval reminder",
				fmt.Sprintf("Step %q has been waiting since %s.", rec.StepName, rec.CreatedAt.Format("2006-01-02")),
				linkFor(rec))
			sent++
		}
	}
	return sent, nil
}

func (s *ReminderServiceImpl) targetsFor(ctx context.Context, rec *approval.ApprovalRecord) []common_models.User {
	switch {
	case !rec.ApproverID.IsZero():
		if u, err := s.Users.FindByObjectID(ctx, rec.ApproverID); err == nil && u != nil {
			return []common_models.User{*u}
		}
	case rec.ApproverType == workflow.ApproverTypeRole:
		if users, err := s.Users.ListActiveWithRole(ctx, rec.ApproverRole); err == nil {
			return users
		}
	case rec.ApproverType == workflow.ApproverTypeDepartment:
		if users, err := s.Users.ListActiveApproversInDepartment(ctx, rec.ApproverDepartmentID); err == nil {
			return users
		}
	}
	return nil
}

func linkFor(rec *approval.ApprovalRecord) string {
	if rec.FormType == workflow.FormTypeVehicleRequest {
		return "/vehicle-requests/" + rec.RequestID.Hex()
	}
	return "/requests/" + rec.RequestID.Hex()
}
