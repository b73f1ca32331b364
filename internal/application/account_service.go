package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"go-commerce-api/internal/domain/entity"
	"go-commerce-api/internal/domain/repository"
	"go-commerce-api/pkg/assets"
	"go-commerce-api/pkg/helpers"
	"go-commerce-api/pkg/mailer"
	tpl "go-commerce-api/pkg/mailer/templates"
)

const profileImageNamespace = "profile_images"

// AccountService orchestrates user registration, authentication, profile and
// password management. Email delivery is fire-and-forget: a failure is logged
// and never fails the parent operation.
type AccountService struct {
	Repo     repository.UserRepository
	JWT      *helpers.JWTManager
	Assets   assets.Store
	Mail     mailer.Sender
	Logger   *logrus.Logger
	AppName  string
	ResetURL string
	ResetTTL time.Duration
}

func NewAccountService(repo repository.UserRepository, jwt *helpers.JWTManager, store assets.Store, mail mailer.Sender, logger *logrus.Logger, appName, resetURL string, resetTTL time.Duration) *AccountService {
	if resetTTL <= 0 {
		resetTTL = 15 * time.Minute
	}
	return &AccountService{
		Repo:     repo,
		JWT:      jwt,
		Assets:   store,
		Mail:     mail,
		Logger:   logger,
		AppName:  appName,
		ResetURL: resetURL,
		ResetTTL: resetTTL,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// Register creates a user, sends a welcome email and issues a session token.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	if err := helpers.CheckPasswordStrength(in.Password); err != nil {
		return nil, "", err
	}
	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	u := &entity.User{Email: in.Email, Password: hash, FullName: in.FullName}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailExists
		}
		return nil, "", err
	}

	s.sendTemplate(u.Email, tpl.Welcome, tpl.NewEmailData(u.FullName, s.AppName))

	token, _, err := s.JWT.GenerateSessionToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and issues a session token. A missing user and a
// wrong password are distinct failure paths.
func (s *AccountService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, _, err := s.JWT.GenerateSessionToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AccountService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateProfileInput struct {
	FullName *string
	Email    *string
	Image    *string // inline-encoded payload; nil keeps the current image
}

// UpdateProfile applies the provided fields. A new image payload is stored
// through the asset store; the previous profile image is left on disk.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	upd := repository.UserUpdate{FullName: in.FullName, Email: in.Email}
	if in.Image != nil && *in.Image != "" {
		path, err := s.Assets.SaveBase64(ctx, *in.Image, profileImageNamespace)
		if err != nil {
			return nil, err
		}
		upd.ProfileImage = &path
	}
	u, err := s.Repo.Update(ctx, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the old password, rejects a reused or weak new one,
// then persists the new hash.
func (s *AccountService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPassword) {
		return ErrOldPasswordIncorrect
	}
	if helpers.CompareHashAndPassword(u.Password, newPassword) {
		return ErrSamePassword
	}
	if err := helpers.CheckPasswordStrength(newPassword); err != nil {
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, u.ID, hash)
}

// ForgotPassword issues a single-use reset token, overwriting any pending one,
// and emails a reset link.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	token, err := helpers.GenerateResetToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.ResetTTL)
	if err := s.Repo.SetResetToken(ctx, u.ID, token, expires); err != nil {
		return err
	}

	data := tpl.NewEmailData(u.FullName, s.AppName)
	data.ResetLink = s.ResetURL + "?token=" + token
	s.sendTemplate(u.Email, tpl.ForgotPassword, data)
	return nil
}

// ResetPassword consumes a pending reset token: the token must match and be
// unexpired, and clearing it is part of the same logical operation.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	u, err := s.Repo.GetByResetToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	if err := helpers.CheckPasswordStrength(newPassword); err != nil {
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	return s.Repo.ClearResetToken(ctx, u.ID)
}

// sendTemplate renders and delivers an email on a detached goroutine after the
// primary write has committed. Failures are only observable via logs.
func (s *AccountService) sendTemplate(to, name string, data tpl.EmailData) {
	if s.Mail == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		// Defer rendering to the consumer when the sender supports it.
		if ts, ok := s.Mail.(mailer.TemplateSender); ok {
			if err := ts.SendTemplate(ctx, to, name, data); err != nil {
				s.warn(err, logrus.Fields{"template": name, "to": to})
			}
			return
		}
		html, err := tpl.RenderHTML(name, data)
		if err != nil {
			s.warn(err, logrus.Fields{"template": name})
			return
		}
		if err := s.Mail.Send(ctx, to, tpl.SubjectFor(name, s.AppName), html); err != nil {
			s.warn(err, logrus.Fields{"template": name, "to": to})
		}
	}()
}

func (s *AccountService) warn(err error, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithFields(fields).Warn("email send failed")
	}
}
