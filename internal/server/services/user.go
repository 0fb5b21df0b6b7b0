// Package services contains server-side business logic. UserService covers
// signup, login, profile updates and the sidebar user list; MessageService
// covers conversation history and sending.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophchat/internal/server/storage"
)

const minPasswordLength = 6

// PasswordHasher hashes and checks passwords. Compare returns
// common.ErrorInvalidCredentials on mismatch.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type SignupInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	uploader    storage.ImageUploader

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService constructs a UserService. db may be nil for the memory backend.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, uploader storage.ImageUploader) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		uploader:    uploader,
	}
}

// Signup validates input, hashes the password and creates the user. The
// email lookup and insert share one transaction.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.PublicUser, error) {
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return nil, common.NewValidationError("All fields are required.")
	}
	if len(in.Password) < minPasswordLength {
		return nil, common.NewValidationError("Password must be at least 6 characters.")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	var created *models.User
	err = s.repomanager.RunInTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, in.Email)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error searching user: %w", err)
		}

		created, err = repo.Create(ctx, &models.User{
			Email:        in.Email,
			FullName:     in.FullName,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created.Public(), nil
}

// compareDummy burns the same bcrypt work for unknown emails so response
// timing does not reveal which emails are registered.
func (s *UserService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("dummy-password")
	})
	_ = s.hasher.Compare(s.dummyHash, password)
}

// Login checks credentials. Unknown email and wrong password both yield
// common.ErrorInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.PublicUser, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.compareDummy(password)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("%w: compare password: %v", common.ErrorInternal, err)
	}

	return user.Public(), nil
}

// GetByID resolves a session's user id; common.ErrorNotFound passes through.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user.Public(), nil
}

// UpdateProfile uploads a new avatar and stores its URL.
func (s *UserService) UpdateProfile(ctx context.Context, userID, profilePic string) (*models.PublicUser, error) {
	if profilePic == "" {
		return nil, common.NewValidationError("Profile pic is required")
	}

	url, err := s.uploader.Upload(ctx, profilePic)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).UpdateAvatar(ctx, userID, url)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating avatar: %w", err)
	}

	return user.Public(), nil
}

// ListForSidebar returns every other user, never nil.
func (s *UserService) ListForSidebar(ctx context.Context, userID string) ([]*models.PublicUser, error) {
	list, err := s.repomanager.Users(s.db).ListExcluding(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	result := make([]*models.PublicUser, 0, len(list))
	for _, u := range list {
		result = append(result, u.Public())
	}
	return result, nil
}
