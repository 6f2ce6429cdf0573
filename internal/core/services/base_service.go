package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/middleware"
	"github.com/ceramica/erp_backend/internal/platform/events"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Authorizer       portssvc.CompanyAuthorizerSvc
	Events           events.Publisher
	StatsInvalidator portssvc.StatsInvalidator
	Now              func() time.Time
}

// ServiceOption is a functional option for configuring the shared service dependencies
type ServiceOption func(*BaseService)

// WithAuthorizer adds the company authorizer dependency
func WithAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) ServiceOption {
	return func(s *BaseService) {
		s.Authorizer = authorizer
	}
}

// WithEventPublisher adds the domain event sink
func WithEventPublisher(publisher events.Publisher) ServiceOption {
	return func(s *BaseService) {
		s.Events = publisher
	}
}

// WithStatsInvalidator adds the dashboard cache invalidator
func WithStatsInvalidator(invalidator portssvc.StatsInvalidator) ServiceOption {
	return func(s *BaseService) {
		s.StatsInvalidator = invalidator
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Now = now
	}
}

func (s *BaseService) apply(options []ServiceOption) {
	for _, option := range options {
		option(s)
	}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// AuthorizeUser checks that the user may perform a read guarded by permission.
// A service wired without an authorizer denies everything.
func (s *BaseService) AuthorizeUser(ctx context.Context, userID, companyID string, permission domain.Permission) error {
	if s.Authorizer == nil {
		return apperrors.NewAppError(500, "no company authorizer configured", nil)
	}
	if err := s.Authorizer.AuthorizeUserAction(ctx, userID, companyID, permission); err != nil {
		s.LogDebug(ctx, "Authorization denied",
			slog.String("user_id", userID),
			slog.String("company_id", companyID),
			slog.String("permission", string(permission)))
		return err
	}
	return nil
}

// AuthorizeWrite is AuthorizeUser for operations that change company data.
func (s *BaseService) AuthorizeWrite(ctx context.Context, userID, companyID string, permission domain.Permission) error {
	if s.Authorizer == nil {
		return apperrors.NewAppError(500, "no company authorizer configured", nil)
	}
	if err := s.Authorizer.AuthorizeWrite(ctx, userID, companyID, permission); err != nil {
		s.LogDebug(ctx, "Write authorization denied",
			slog.String("user_id", userID),
			slog.String("company_id", companyID),
			slog.String("permission", string(permission)))
		return err
	}
	return nil
}

// publish sends an event after the change committed. Failures are logged only.
func (s *BaseService) publish(ctx context.Context, eventType, companyID, entityID, actorID string, data any) {
	if s.Events == nil {
		return
	}
	event := events.Event{
		Type:       eventType,
		CompanyID:  companyID,
		EntityID:   entityID,
		ActorID:    actorID,
		OccurredAt: s.now(),
		Data:       data,
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish event",
			slog.String("event_type", eventType),
			slog.String("company_id", companyID),
			slog.String("entity_id", entityID))
	}
}

// afterDocumentChange drops cached stats and announces a committed document transition.
func (s *BaseService) afterDocumentChange(ctx context.Context, eventType, companyID, entityID, actorID string, data any) {
	s.invalidateStats(ctx, companyID)
	s.publish(ctx, eventType, companyID, entityID, actorID, data)
}

func (s *BaseService) invalidateStats(ctx context.Context, companyID string) {
	if s.StatsInvalidator != nil {
		s.StatsInvalidator.InvalidateCompanyStats(ctx, companyID)
	}
}
