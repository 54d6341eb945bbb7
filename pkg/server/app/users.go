/* Copyright 2025 Noteshare Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package app

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func validatePassword(password, confirmation string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if password != confirmation {
		return ErrPasswordConfirmationMismatch
	}

	return nil
}

// CreateUser creates a user account
func (a *App) CreateUser(email, name, password, passwordConfirmation string) (database.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if name == "" {
		return database.User{}, ErrNameRequired
	}
	if err := validatePassword(password, passwordConfirmation); err != nil {
		return database.User{}, err
	}

	var user database.User
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return errors.Wrap(err, "counting duplicate email")
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hashing password")
		}

		user = database.User{
			UUID:     uuid.NewString(),
			Email:    email,
			Name:     name,
			Password: string(hashed),
			Active:   true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return errors.Wrap(err, "creating user")
		}

		return nil
	})
	if err != nil {
		return database.User{}, err
	}

	return user, nil
}

// Authenticate checks the given credentials and returns the matching active
// user
func (a *App) Authenticate(email, password string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrLoginInvalid
	}

	if !user.Active {
		return nil, ErrUserInactive
	}

	return &user, nil
}

// SignIn signs in the given user by creating a session and recording the
// login time
func (a *App) SignIn(user *database.User) (*database.Session, error) {
	if err := a.TouchLastLoginAt(*user, a.DB); err != nil {
		return nil, errors.Wrap(err, "touching login timestamp")
	}

	session, err := a.CreateSession(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "creating session")
	}

	return &session, nil
}

// TouchLastLoginAt updates the last login timestamp of the given user
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	now := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &now).Error; err != nil {
		return errors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// TouchLastSeen records that the given user was just seen. It returns the
// recorded timestamp.
func (a *App) TouchLastSeen(user database.User) (time.Time, error) {
	now := a.Clock.Now()
	if err := a.DB.Model(&user).Update("last_seen_at", &now).Error; err != nil {
		return now, errors.Wrap(err, "updating last_seen_at")
	}

	return now, nil
}

// UpdateProfileParams is the profile fields to update. Nil fields are left
// untouched.
type UpdateProfileParams struct {
	Name  *string
	Email *string
	Bio   *string
}

// UpdateProfile updates the given user's own profile
func (a *App) UpdateProfile(user database.User, p UpdateProfileParams) (database.User, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return database.User{}, ErrNameRequired
		}
		user.Name = name
	}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if email == "" {
			return database.User{}, ErrEmailRequired
		}
		user.Email = email
	}
	if p.Bio != nil {
		user.Bio = *p.Bio
	}

	err := a.DB.Save(&user).Error
	if database.IsUniqueConstraintError(err) {
		return database.User{}, ErrDuplicateEmail
	}
	if err != nil {
		return database.User{}, errors.Wrap(err, "saving user")
	}

	return user, nil
}

// UpdatePassword sets a new password for the given user
func (a *App) UpdatePassword(user database.User, password, passwordConfirmation string) error {
	if err := validatePassword(password, passwordConfirmation); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}

	if err := a.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		return errors.Wrap(err, "updating password")
	}

	return nil
}

// GetUserByID finds a user with the given id. It returns nil if the user is
// not found.
func (a *App) GetUserByID(id int) (*database.User, error) {
	var user database.User
	err := a.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding user")
	}

	return &user, nil
}

// GetUserByEmailOrName finds a user whose email or display name matches the
// given value. It returns nil if no user matches.
func (a *App) GetUserByEmailOrName(value string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ? OR name = ?", value, value).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding user")
	}

	return &user, nil
}
