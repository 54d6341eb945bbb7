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
	"time"

	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/mailer"
	"github.com/noteshare/noteshare/pkg/server/token"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// resetTokenValidityDur is how long a password reset token stays valid
const resetTokenValidityDur = 10 * time.Minute

// SendPasswordResetEmail creates a reset token for the account with the given
// email and mails a reset link to it
func (a *App) SendPasswordResetEmail(email string) error {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEmailNotRegistered
	}
	if err != nil {
		return errors.Wrap(err, "finding user")
	}

	tok, err := token.Create(a.DB, user.ID, database.TokenTypeResetPassword)
	if err != nil {
		return errors.Wrap(err, "creating token")
	}

	body, err := mailer.GetBody(mailer.EmailTypeResetPassword, mailer.EmailTypeResetPasswordTmplData{
		Token:  tok.Value,
		WebURL: a.WebURL,
	})
	if err != nil {
		return errors.Wrap(err, "building email body")
	}

	err = a.EmailBackend.Queue("Reset your password", "noreply@noteshare.io", []string{user.Email}, "text/plain", body)
	if err != nil {
		return errors.Wrap(err, "queueing email")
	}

	return nil
}

// ResetPassword sets a new password for the account the given reset token
// belongs to and consumes the token
func (a *App) ResetPassword(tokenValue, password, passwordConfirmation string) error {
	var tok database.Token
	err := a.DB.
		Where("value = ? AND type = ?", tokenValue, database.TokenTypeResetPassword).
		First(&tok).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return errors.Wrap(err, "finding token")
	}

	if tok.UsedAt != nil {
		return ErrInvalidToken
	}
	if a.Clock.Now().Sub(tok.CreatedAt) > resetTokenValidityDur {
		return ErrInvalidToken
	}

	user, err := a.GetUserByID(tok.UserID)
	if err != nil {
		return errors.Wrap(err, "finding user")
	}
	if user == nil {
		return ErrInvalidToken
	}

	if err := a.UpdatePassword(*user, password, passwordConfirmation); err != nil {
		return err
	}

	now := a.Clock.Now()
	if err := a.DB.Model(&tok).Update("used_at", &now).Error; err != nil {
		return errors.Wrap(err, "marking token used")
	}

	// Old sessions of the account are revoked when its password changes
	if err := a.DB.Where("user_id = ?", user.ID).Delete(&database.Session{}).Error; err != nil {
		return errors.Wrap(err, "deleting sessions")
	}

	return nil
}
