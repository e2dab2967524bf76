package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
	"openlearn-backend/internal/infra/logging"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	Register(ctx context.Context, email, displayName, password string) (*model.User, error)
	// Authenticate checks credentials and returns the user on success.
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]*model.User, error)
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, log *zerolog.Logger) *userUC {
	return &userUC{users: users, log: log}
}

func (u *userUC) Register(ctx context.Context, email, displayName, password string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Register")()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidArgument)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password too short", domain.ErrInvalidArgument)
	}

	if _, err := u.users.FindByEmail(ctx, repository.NoTX, email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := model.NewUser("", email, displayName)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)

	if err := u.users.Save(ctx, repository.NoTX, user); err != nil {
		return nil, err
	}
	u.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (u *userUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := u.users.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func (u *userUC) Profile(ctx context.Context, userID string) (*model.User, error) {
	return u.users.FindByID(ctx, repository.NoTX, userID)
}

func (u *userUC) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	return u.users.List(ctx, repository.NoTX, offset, limit)
}
