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

// Package permissions decides who can do what. Reads are public in this
// system; only mutations are gated.
package permissions

import (
	"github.com/noteshare/noteshare/pkg/server/database"
)

// ModifyNote checks if the given user can update or delete the given note.
// The owner and administrators can.
func ModifyNote(user *database.User, note database.Note) bool {
	if user == nil {
		return false
	}
	if note.UserID == 0 {
		return false
	}

	return note.UserID == user.ID || user.Admin
}

// ManageUsers checks if the given user can perform administrative actions on
// user accounts
func ManageUsers(user *database.User) bool {
	return user != nil && user.Admin
}
