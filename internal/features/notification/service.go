package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go-reqdesk/internal/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserEmailFinder resolves the email address notifications are mailed to.
type UserEmailFinder interface {
	FindEmailByObjectID(ctx context.Context, id primitive.ObjectID) (string, error)
}

type NotificationService interface {
	// Notify records an in-app notification and mails the user. It is
	// fire-and-forget: callers invoke it from a goroutine after a state
	// transition commits, and failures are logged, never propagated.
	Notify(ctx context.Context, userID primitive.ObjectID, nType NotificationType, title, message, link string)
	ListForUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id string, userID primitive.ObjectID) error
}

type NotificationServiceImpl struct {
	Repo   NotificationRepository
	Users  UserEmailFinder
	Config *config.Config
	Logger *zap.Logger
}

func NewNotificationService(repo NotificationRepository, users UserEmailFinder, cfg *config.Config, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		Repo:   repo,
		Users:  users,
		Config: cfg,
		Logger: logger,
	}
}

func (s *NotificationServiceImpl) Notify(ctx context.Context, userID primitive.ObjectID, nType NotificationType, title, message, link string) {
	if userID.IsZero() {
		return
	}

	n := &Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    nType,
		Link:    link,
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		s.Logger.Warn("failed to store notification", zap.Error(err))
	}

	if s.Config.SMTPHost == "" {
		return
	}
	email, err := s.Users.FindEmailByObjectID(ctx, userID)
	if err != nil || email == "" {
		return
	}
	if err := s.sendMail(email, title, message); err != nil {
		s.Logger.Warn("failed to send notification mail", zap.String("to", email), zap.Error(err))
	}
}

func (s *NotificationServiceImpl) sendMail(to, subject, body string) error {
	cfg := s.Config
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)

	msg := strings.Join([]string{
		"From: " + cfg.FromEmail,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(addr, auth, cfg.FromEmail, []string{to}, []byte(msg))
}

func (s *NotificationServiceImpl) ListForUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool) ([]Notification, error) {
	return s.Repo.ListByUser(ctx, userID, unreadOnly, 50)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id string, userID primitive.ObjectID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return s.Repo.MarkRead(ctx, oid, userID)
}
