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

package permissions

import (
	"fmt"
	"testing"

	"github.com/noteshare/noteshare/pkg/assert"
	"github.com/noteshare/noteshare/pkg/server/database"
)

func TestModifyNote(t *testing.T) {
	owner := database.User{Model: database.Model{ID: 1}}
	admin := database.User{Model: database.Model{ID: 2}, Admin: true}
	other := database.User{Model: database.Model{ID: 3}}
	note := database.Note{Model: database.Model{ID: 10}, UserID: 1}

	testCases := []struct {
		user     *database.User
		expected bool
	}{
		{user: &owner, expected: true},
		{user: &admin, expected: true},
		{user: &other, expected: false},
		{user: nil, expected: false},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			assert.Equal(t, ModifyNote(tc.user, note), tc.expected, "result mismatch")
		})
	}
}

func TestManageUsers(t *testing.T) {
	admin := database.User{Model: database.Model{ID: 1}, Admin: true}
	user := database.User{Model: database.Model{ID: 2}}

	assert.Equal(t, ManageUsers(&admin), true, "admin should manage users")
	assert.Equal(t, ManageUsers(&user), false, "non-admin should not manage users")
	assert.Equal(t, ManageUsers(nil), false, "anonymous should not manage users")
}
