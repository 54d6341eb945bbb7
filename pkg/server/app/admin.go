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
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UserFlagsParams is the account flags to update. Nil fields are left
// untouched.
type UserFlagsParams struct {
	Admin  *bool
	Active *bool
}

// UpdateUserFlags sets the admin and active flags of the target account.
// Admins cannot strip their own admin role or deactivate themselves.
func (a *App) UpdateUserFlags(actor database.User, target database.User, p UserFlagsParams) (database.User, error) {
	if !permissions.ManageUsers(&actor) {
		return database.User{}, ErrPermissionDenied
	}

	if actor.ID == target.ID {
		if p.Admin != nil && !*p.Admin {
			return database.User{}, ErrSelfDemotion
		}
		if p.Active != nil && !*p.Active {
			return database.User{}, ErrSelfDeactivation
		}
	}

	if p.Admin != nil {
		target.Admin = *p.Admin
	}
	if p.Active != nil {
		target.Active = *p.Active
	}

	if err := a.DB.Save(&target).Error; err != nil {
		return database.User{}, errors.Wrap(err, "saving user")
	}

	return target, nil
}

// DeleteUser removes the target account and everything it owns: notes with
// their attachments, plus the ratings, bookmarks, sessions and tokens of the
// account. Admins cannot delete themselves.
func (a *App) DeleteUser(actor database.User, target database.User) error {
	if !permissions.ManageUsers(&actor) {
		return ErrPermissionDenied
	}
	if actor.ID == target.ID {
		return ErrSelfDeletion
	}

	var keys []string

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var noteIDs []int
		if err := tx.Model(&database.Note{}).
			Where("user_id = ?", target.ID).
			Pluck("id", &noteIDs).Error; err != nil {
			return errors.Wrap(err, "finding note ids")
		}

		if len(noteIDs) > 0 {
			var attachments []database.Attachment
			if err := tx.Where("note_id IN ?", noteIDs).Find(&attachments).Error; err != nil {
				return errors.Wrap(err, "finding attachments")
			}
			for _, att := range attachments {
				keys = append(keys, att.Key)
			}

			if err := tx.Where("note_id IN ?", noteIDs).Delete(&database.Attachment{}).Error; err != nil {
				return errors.Wrap(err, "deleting attachments")
			}
			if err := tx.Where("note_id IN ?", noteIDs).Delete(&database.Rating{}).Error; err != nil {
				return errors.Wrap(err, "deleting ratings on notes")
			}
			if err := tx.Exec("DELETE FROM bookmarks WHERE note_id IN ?", noteIDs).Error; err != nil {
				return errors.Wrap(err, "deleting bookmarks on notes")
			}
		}

		if err := tx.Where("user_id = ?", target.ID).Delete(&database.Rating{}).Error; err != nil {
			return errors.Wrap(err, "deleting ratings by user")
		}
		if err := tx.Exec("DELETE FROM bookmarks WHERE user_id = ?", target.ID).Error; err != nil {
			return errors.Wrap(err, "deleting bookmarks by user")
		}
		if err := tx.Where("user_id = ?", target.ID).Delete(&database.Session{}).Error; err != nil {
			return errors.Wrap(err, "deleting sessions")
		}
		if err := tx.Where("user_id = ?", target.ID).Delete(&database.Token{}).Error; err != nil {
			return errors.Wrap(err, "deleting tokens")
		}
		if err := tx.Where("user_id = ?", target.ID).Delete(&database.Note{}).Error; err != nil {
			return errors.Wrap(err, "deleting notes")
		}
		if err := tx.Delete(&target).Error; err != nil {
			return errors.Wrap(err, "deleting user")
		}

		return nil
	})
	if err != nil {
		return err
	}

	a.removeBlobs(keys)

	return nil
}

// AdminUserRecord is a user account row in the admin listing
type AdminUserRecord struct {
	database.User
	NotesCount int64 `json:"notes_count"`
}

// ListUsers lists user accounts for administration, most recently logged in
// first. Accounts that never logged in are hidden unless showAll is set.
func (a *App) ListUsers(actor database.User, showAll bool) ([]AdminUserRecord, error) {
	if !permissions.ManageUsers(&actor) {
		return nil, ErrPermissionDenied
	}

	conn := a.DB.Model(&database.User{}).
		Select("users.*, (SELECT COUNT(*) FROM notes WHERE notes.user_id = users.id) AS notes_count")

	if !showAll {
		conn = conn.Where("users.last_login_at IS NOT NULL")
	}

	conn = conn.Order("users.last_login_at DESC, users.created_at DESC")

	var records []AdminUserRecord
	if err := conn.Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "listing users")
	}

	return records, nil
}
