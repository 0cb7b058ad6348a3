package service

import (
	"errors"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"gorm.io/gorm"
)

type UserService interface {
	Register(input RegisterInput) (*RegisteredUserView, error)
	List(viewerID uint, limit, offset int) ([]UserView, int64, error)
	Get(id, viewerID uint) (*UserView, error)
	SetPassword(userID uint, input SetPasswordInput) error
}

type userService struct {
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
}

func NewUserService(userRepo repository.UserRepository, subscriptionRepo repository.SubscriptionRepository) UserService {
	return &userService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (s *userService) Register(input RegisterInput) (*RegisteredUserView, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	logger.Info("Attempting user registration", map[string]interface{}{
		"email":    email,
		"username": input.Username,
	})

	var conflicts []error
	emailTaken, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		conflicts = append(conflicts, fieldError(ErrAlreadyExists, "email", "A user with that email already exists."))
	}
	usernameTaken, err := s.userRepo.ExistsByUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		conflicts = append(conflicts, fieldError(ErrAlreadyExists, "username", "A user with that username already exists."))
	}
	if len(conflicts) > 0 {
		logger.Warn("Registration failed: user already exists", map[string]interface{}{
			"email":    email,
			"username": input.Username,
		})
		return nil, errors.Join(conflicts...)
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Username:     input.Username,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hashedPassword,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, newError(ErrAlreadyExists, "A user with that email or username already exists.")
		}
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return &RegisteredUserView{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) List(viewerID uint, limit, offset int) ([]UserView, int64, error) {
	users, total, err := s.userRepo.FindAll(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	followed, err := s.subscriptionRepo.AuthorIDsFollowedBy(viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, newUserView(&users[i], followed[users[i].ID]))
	}
	return views, total, nil
}

// Get returns the profile as seen by viewerID (0 for anonymous).
func (s *userService) Get(id, viewerID uint) (*UserView, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrUserNotFound, "User not found.")
		}
		return nil, err
	}

	followed, err := s.subscriptionRepo.AuthorIDsFollowedBy(viewerID, []uint{id})
	if err != nil {
		return nil, err
	}
	view := newUserView(user, followed[id])
	return &view, nil
}

func (s *userService) SetPassword(userID uint, input SetPasswordInput) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(ErrUserNotFound, "User not found.")
		}
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, input.CurrentPassword) {
		logger.Warn("Password change rejected: wrong current password", map[string]interface{}{
			"user_id": userID,
		})
		return fieldError(ErrValidation, "current_password", "Invalid password.")
	}

	hashedPassword, err := util.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(userID, hashedPassword); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
