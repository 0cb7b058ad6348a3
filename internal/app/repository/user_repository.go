package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll(limit, offset int) ([]model.User, int64, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByUsername(username string) (bool, error)
	UpdatePassword(id uint, passwordHash string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email":    user.Email,
		"username": user.Username,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Debug("User found by ID in database", map[string]interface{}{
		"user_id": user.ID,
	})
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	logger.Debug("Finding user by email in database", map[string]interface{}{
		"email": email,
	})

	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		logger.Error("Failed to find user by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Debug("User found by email in database", map[string]interface{}{
		"user_id": user.ID,
	})
	return &user, nil
}

func (r *userRepository) FindAll(limit, offset int) ([]model.User, int64, error) {
	logger.Debug("Listing users in database", map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	var total int64
	query := r.db.Model(&model.User{})
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count users in database", err)
		return nil, 0, err
	}

	var users []model.User
	if err := query.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		logger.Error("Failed to list users in database", err)
		return nil, 0, err
	}

	logger.Debug("Users listed in database", map[string]interface{}{
		"count": len(users),
		"total": total,
	})
	return users, total, nil
}

func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	return r.exists("email", email)
}

func (r *userRepository) ExistsByUsername(username string) (bool, error) {
	return r.exists("username", username)
}

func (r *userRepository) exists(column, value string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Where(column+" = ?", value).Count(&count).Error; err != nil {
		logger.Error("Failed to check user existence in database", err, map[string]interface{}{
			"column": column,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdatePassword(id uint, passwordHash string) error {
	logger.Debug("Updating user password in database", map[string]interface{}{
		"user_id": id,
	})

	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		logger.Error("Failed to update user password in database", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("User password updated in database", map[string]interface{}{
		"user_id": id,
	})
	return nil
}
