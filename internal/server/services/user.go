package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/scribe-blog/scribe/internal/common"
	"github.com/scribe-blog/scribe/internal/imgx"
	"github.com/scribe-blog/scribe/internal/server/models"
	"github.com/scribe-blog/scribe/internal/server/repositories/users"
)

type Users interface {
	Get(ctx context.Context, username string) (*models.User, error)
	CheckUsername(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, authId int, username string, input models.ProfileUpdateInput, avatar io.ReadSeeker) (*models.User, error)
}

type UserService struct {
	users     users.Repository
	avatarDir string
}

func NewUserService(ur users.Repository, avatarDir string) *UserService {
	return &UserService{users: ur, avatarDir: avatarDir}
}

func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// CheckUsername reports whether username is still free to register.
func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, error) {
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// UpdateProfile applies a profile edit. Only the owner may edit; a non-nil
// avatar is verified, stored under a random name and replaces the old path.
func (s *UserService) UpdateProfile(ctx context.Context, authId int, username string, input models.ProfileUpdateInput, avatar io.ReadSeeker) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user.Id != authId {
		return nil, common.ErrUnauthorized
	}

	if avatar != nil {
		name, err := s.saveAvatar(avatar)
		if err != nil {
			return nil, err
		}
		user.Avatar = "/avatars/" + name
	}

	user.Name = input.Name
	user.Bio = input.Bio

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (s *UserService) saveAvatar(avatar io.ReadSeeker) (string, error) {
	ext, err := imgx.Verify(avatar)
	if err != nil {
		if errors.Is(err, imgx.ErrTooLarge) || errors.Is(err, imgx.ErrType) {
			return "", err
		}
		return "", fmt.Errorf("verifying avatar: %w", err)
	}

	if err := os.MkdirAll(s.avatarDir, 0o755); err != nil {
		return "", fmt.Errorf("creating avatar dir: %w", err)
	}

	name := uuid.NewString() + ext
	if err := imgx.Save(avatar, s.avatarDir, name); err != nil {
		return "", fmt.Errorf("saving avatar: %w", err)
	}

	return name, nil
}
