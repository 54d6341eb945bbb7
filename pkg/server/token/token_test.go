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

package token_test

import (
	"testing"

	"github.com/noteshare/noteshare/pkg/assert"
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/testutils"
	"github.com/noteshare/noteshare/pkg/server/token"
	"github.com/pkg/errors"
)

func TestCreate(t *testing.T) {
	db := testutils.InitDB(t)
	user := testutils.SetupUserData(t, db, "alice@example.com", "alice")

	tok, err := token.Create(db, user.ID, database.TokenTypeResetPassword)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating token"))
	}

	assert.Equal(t, tok.UserID, user.ID, "user mismatch")
	assert.Equal(t, tok.Type, database.TokenTypeResetPassword, "type mismatch")
	assert.NotEqual(t, tok.Value, "", "value should be set")
	if tok.UsedAt != nil {
		t.Errorf("used_at should be nil, got %+v", tok.UsedAt)
	}

	again, err := token.Create(db, user.ID, database.TokenTypeResetPassword)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating second token"))
	}
	assert.NotEqual(t, again.Value, tok.Value, "values should differ")
}
