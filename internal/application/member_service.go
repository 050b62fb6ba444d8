package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	repo "github.com/oksasatya/perfume-catalog/internal/domain/repository"
	"github.com/oksasatya/perfume-catalog/pkg/helpers"
	"github.com/oksasatya/perfume-catalog/pkg/mailer"
	"github.com/oksasatya/perfume-catalog/pkg/mailer/templates"
)

// JobPublisher puts background jobs on a queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, v any) error
}

type MemberService struct {
	Repo    repo.MemberRepository
	Tx      repo.Transactor
	Guard   *IntegrityGuard
	JWT     *helpers.JWTManager
	Mail    JobPublisher // nil disables notifications
	AppName string
	Logger  *logrus.Logger

	// AllowSelfAdmin enables PromoteFirstAdmin.
	AllowSelfAdmin bool
}

func NewMemberService(r repo.MemberRepository, tx repo.Transactor, guard *IntegrityGuard, jwt *helpers.JWTManager, logger *logrus.Logger) *MemberService {
	return &MemberService{Repo: r, Tx: tx, Guard: guard, JWT: jwt, Logger: logger}
}

// Session is an authenticated member plus the token issued for it.
type Session struct {
	Member    *entity.Member
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	YOB      *int
	Gender   *bool
}

// ProfileInput updates only the fields that are set.
type ProfileInput struct {
	Name   *string
	YOB    *int
	Gender *bool
}

func (s *MemberService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	m := &entity.Member{
		Email:  entity.NormalizeEmail(in.Email),
		Name:   strings.TrimSpace(in.Name),
		YOB:    in.YOB,
		Gender: in.Gender,
	}
	fields := map[string]string{}
	if m.Email == "" {
		fields["email"] = "is required"
	}
	if m.Name == "" {
		fields["name"] = "is required"
	}
	if in.Password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return nil, Validation("Member validation failed", fields)
	}

	if _, err := s.Repo.GetByEmail(ctx, m.Email); err == nil {
		return nil, emailTaken()
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, Internal(err)
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, Internal(err)
	}
	m.Password = hash
	if err := s.Repo.Create(ctx, m); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, emailTaken()
		}
		return nil, Internal(err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"member_id": m.ID, "email": m.Email}).Info("member registered")
	}
	s.notify(ctx, templates.Welcome, m)
	return s.issue(m)
}

func emailTaken() *Error {
	return Conflict(CodeEmailTaken, "Email already registered", nil)
}

// Authenticate validates email and password. Unknown email and wrong
// password fail with the same ErrInvalidCredentials.
func (s *MemberService) Authenticate(ctx context.Context, email, password string) (*entity.Member, error) {
	m, err := s.Repo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, Internal(err)
	}
	if !helpers.CompareHashAndPassword(m.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return m, nil
}

func (s *MemberService) Login(ctx context.Context, email, password string) (*Session, error) {
	m, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(m)
}

// LoginWithOAuth signs in the member owning email, registering it with a
// random password on first use.
func (s *MemberService) LoginWithOAuth(ctx context.Context, email, name string) (*Session, error) {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return nil, BadRequest("Provider did not return an email")
	}
	m, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return s.issue(m)
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, Internal(err)
	}
	if strings.TrimSpace(name) == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	sess, err := s.Register(ctx, RegisterInput{Email: email, Name: name, Password: uuid.NewString()})
	if KindOf(err) == KindConflict {
		// Lost a race with a concurrent first login.
		if m, err := s.Repo.GetByEmail(ctx, email); err == nil {
			return s.issue(m)
		}
	}
	return sess, err
}

func (s *MemberService) issue(m *entity.Member) (*Session, error) {
	token, exp, err := s.JWT.Generate(m.ID, m.IsAdmin)
	if err != nil {
		return nil, Internal(err)
	}
	return &Session{Member: m, Token: token, ExpiresAt: exp}, nil
}

// VerifyToken resolves a session token to the current member identity. The
// admin flag comes from the store, not the token. Any failure means no identity.
func (s *MemberService) VerifyToken(ctx context.Context, token string) (*entity.Identity, bool) {
	if token == "" {
		return nil, false
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, false
	}
	m, err := s.Repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) && s.Logger != nil {
			s.Logger.WithError(err).Warn("identity lookup failed")
		}
		return nil, false
	}
	id := m.Identity()
	return &id, true
}

func (s *MemberService) GetProfile(ctx context.Context, id string) (*entity.Member, error) {
	m, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Member not found")
	}
	return m, nil
}

func (s *MemberService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*entity.Member, error) {
	m, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Member not found")
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, Validation("Member validation failed", map[string]string{"name": "is required"})
		}
		m.Name = name
	}
	if in.YOB != nil {
		m.YOB = in.YOB
	}
	if in.Gender != nil {
		m.Gender = in.Gender
	}
	if err := s.Repo.Update(ctx, m); err != nil {
		return nil, notFoundOr(err, "Member not found")
	}
	return m, nil
}

func (s *MemberService) ChangePassword(ctx context.Context, id, current, next string) error {
	m, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Member not found")
	}
	if !helpers.CompareHashAndPassword(m.Password, current) {
		return &Error{Kind: KindInvalidCredentials, Code: CodeCurrentPasswordInvalid, Message: "Current password is incorrect"}
	}
	if next == "" {
		return Validation("Member validation failed", map[string]string{"newPassword": "is required"})
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return Internal(err)
	}
	m.Password = hash
	if err := s.Repo.Update(ctx, m); err != nil {
		return notFoundOr(err, "Member not found")
	}
	s.notify(ctx, templates.PasswordChanged, m)
	return nil
}

func (s *MemberService) List(ctx context.Context) ([]entity.Member, error) {
	members, err := s.Repo.List(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return members, nil
}

func (s *MemberService) Count(ctx context.Context) (int, error) {
	n, err := s.Repo.Count(ctx)
	if err != nil {
		return 0, Internal(err)
	}
	return n, nil
}

// Delete removes a member once no perfume holds one of its comments.
func (s *MemberService) Delete(ctx context.Context, id string) error {
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Guard.GuardMemberDeletion(ctx, id); err != nil {
			return err
		}
		if err := s.Repo.Delete(ctx, id); err != nil {
			return notFoundOr(err, "Member not found")
		}
		return nil
	})
	if err != nil {
		return AsError(err)
	}
	if s.Logger != nil {
		s.Logger.WithField("member_id", id).Info("member deleted")
	}
	return nil
}

// PromoteFirstAdmin makes id an admin while the store has none.
func (s *MemberService) PromoteFirstAdmin(ctx context.Context, id string) (*entity.Member, error) {
	if !s.AllowSelfAdmin {
		return nil, Forbidden("Self promotion is disabled")
	}
	var promoted *entity.Member
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.Repo.ExistsAdmin(ctx)
		if err != nil {
			return Internal(err)
		}
		if exists {
			return Conflict(CodeAdminExists, "An admin already exists", nil)
		}
		m, err := s.Repo.LockByID(ctx, id, repo.LockUpdate)
		if err != nil {
			return notFoundOr(err, "Member not found")
		}
		m.IsAdmin = true
		if err := s.Repo.Update(ctx, m); err != nil {
			return notFoundOr(err, "Member not found")
		}
		promoted = m
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	if s.Logger != nil {
		s.Logger.WithField("member_id", id).Warn("member promoted to admin")
	}
	return promoted, nil
}

func (s *MemberService) notify(ctx context.Context, template string, m *entity.Member) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       m.Email,
		Template: template,
		Data:     templates.NewData(s.AppName, m.Name, m.Email, time.Now()),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("email job publish failed")
	}
}
