package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	appLogger "github.com/Pazificateur69/CRM-NetStrategy-sub001/pkg/logger"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

// Support carries the collaborators shared by the task, reminder and view use cases:
// identity and account lookups, order allocation, the transition policy and the clock.
type Support struct {
	identity    repository.IdentityDirectory
	accounts    repository.AccountDirectory
	sequence    repository.Sequencer
	recorder    ActivityRecorder
	departments domain.DepartmentCatalog
	policy      domain.TransitionPolicy
	adminRole   string
	location    *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

type Option func(*Support)

func WithClock(now func() time.Time) Option {
	return func(s *Support) {
		if now != nil {
			s.now = now
		}
	}
}

func WithDepartments(names []string) Option {
	return func(s *Support) { s.departments = domain.NewDepartmentCatalog(names) }
}

func WithPolicy(policy domain.TransitionPolicy) Option {
	return func(s *Support) {
		if policy != nil {
			s.policy = policy
		}
	}
}

func WithAdminRole(role string) Option {
	return func(s *Support) {
		if role != "" {
			s.adminRole = role
		}
	}
}

// WithLocation sets the time zone calendar weeks are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Support) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithRecorder(recorder ActivityRecorder) Option {
	return func(s *Support) { s.recorder = recorder }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Support) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSupport(store repository.Store, opts ...Option) *Support {
	s := &Support{
		identity:  store.Identity,
		accounts:  store.Accounts,
		sequence:  store.Sequence,
		policy:    domain.Permissive{},
		adminRole: domain.RoleAdmin,
		location:  time.UTC,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	if store.Activity != nil {
		s.recorder = RecordFunc(store.Activity.Append)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Support) Now() time.Time {
	return s.now()
}

func (s *Support) Location() *time.Location {
	return s.location
}

func (s *Support) Policy() domain.TransitionPolicy {
	return s.policy
}

// Caller loads the caller's admin standing from the directory on every call.
func (s *Support) Caller(ctx context.Context, callerID string) (domain.Caller, error) {
	if strings.TrimSpace(callerID) == "" {
		return domain.Caller{}, domain.ErrUnauthorized
	}
	admin, err := s.identity.HasRole(ctx, callerID, s.adminRole)
	if err != nil {
		return domain.Caller{}, err
	}
	return domain.Caller{ID: callerID, Admin: admin}, nil
}

// Authorize checks the caller against the item as currently stored.
func (s *Support) Authorize(ctx context.Context, callerID string, item domain.Participants) (domain.Caller, error) {
	caller, err := s.Caller(ctx, callerID)
	if err != nil {
		return caller, err
	}
	if !domain.CanMutate(caller, item) {
		return caller, domain.ErrForbidden
	}
	return caller, nil
}

// RequireUser rejects ids unknown to the identity directory.
func (s *Support) RequireUser(ctx context.Context, field, userID string) error {
	exists, err := s.identity.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.InvalidField(field, "unknown user "+userID)
	}
	return nil
}

func (s *Support) CheckDepartment(name string) error {
	if !s.departments.Knows(name) {
		return domain.InvalidField("department", "unknown department "+name)
	}
	return nil
}

// CheckAttachment verifies the referenced account exists. A nil attachment is a global item.
func (s *Support) CheckAttachment(ctx context.Context, attachment *domain.Attachment) error {
	if attachment == nil {
		return nil
	}
	if !attachment.Kind.Valid() {
		return domain.InvalidField("attached_to.kind", "must be one of: customer, prospect")
	}
	exists, err := s.accounts.AccountExists(ctx, attachment.Kind, attachment.ID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ResolveDepartment applies explicit > assignee home > creator home. Home departments are
// only looked up when the higher-priority inputs are empty.
func (s *Support) ResolveDepartment(ctx context.Context, explicit, assigneeID, creatorID string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		if err := s.CheckDepartment(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	var assigneeDept, creatorDept string
	var err error
	if assigneeID != "" {
		if assigneeDept, err = s.identity.HomeDepartment(ctx, assigneeID); err != nil {
			return "", err
		}
	}
	if assigneeDept == "" && creatorID != "" {
		if creatorDept, err = s.identity.HomeDepartment(ctx, creatorID); err != nil {
			return "", err
		}
	}
	return domain.ResolveDepartment("", assigneeDept, creatorDept), nil
}

// HomeDepartment returns the user's home department, "" when none.
func (s *Support) HomeDepartment(ctx context.Context, userID string) (string, error) {
	return s.identity.HomeDepartment(ctx, userID)
}

func (s *Support) NextOrder(ctx context.Context, creatorID string) (int64, error) {
	return s.sequence.Next(ctx, creatorID)
}

// Record appends an activity entry. Failures are logged and never surface to the caller.
func (s *Support) Record(ctx context.Context, kind domain.ItemKind, itemID, actorID, action string, payload interface{}) {
	if s.recorder == nil {
		return
	}
	activity := domain.Activity{
		ID:        uuid.NewString(),
		ItemKind:  kind,
		ItemID:    itemID,
		ActorID:   actorID,
		Action:    action,
		CreatedAt: s.now(),
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			activity.Payload = raw
		}
	}
	if err := s.recorder.Record(ctx, activity); err != nil {
		appLogger.WithRequestID(ctx, s.logger).Warn("activity not recorded",
			zap.String("item_id", itemID),
			zap.String("action", action),
			zap.Error(err))
	}
}
