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

package presenters

import (
	"github.com/noteshare/noteshare/pkg/server/app"
	"github.com/noteshare/noteshare/pkg/server/database"
)

// User is a presented user profile
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	CreatedAt int64  `json:"created_at"`
	Online    bool   `json:"online"`
	IsAdmin   bool   `json:"is_admin"`
}

// PresentUser presents a user record
func PresentUser(user database.User, online bool) User {
	return User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Bio:       user.Bio,
		CreatedAt: FormatTS(user.CreatedAt),
		Online:    online,
		IsAdmin:   user.Admin,
	}
}

// AdminUser is a presented user account in the admin listing
type AdminUser struct {
	User
	IsActive    bool   `json:"is_active"`
	LastLoginAt *int64 `json:"last_login_at"`
	LastSeenAt  *int64 `json:"last_seen_at"`
	NotesCount  int64  `json:"notes_count"`
}

// PresentAdminUser presents a user account for administration
func PresentAdminUser(record app.AdminUserRecord, online bool) AdminUser {
	ret := AdminUser{
		User:       PresentUser(record.User, online),
		IsActive:   record.Active,
		NotesCount: record.NotesCount,
	}

	if record.LastLoginAt != nil {
		ts := FormatTS(*record.LastLoginAt)
		ret.LastLoginAt = &ts
	}
	if record.LastSeenAt != nil {
		ts := FormatTS(*record.LastSeenAt)
		ret.LastSeenAt = &ts
	}

	return ret
}
