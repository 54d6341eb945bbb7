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
	"fmt"
	"testing"
	"time"

	"github.com/noteshare/noteshare/pkg/assert"
	"github.com/noteshare/noteshare/pkg/clock"
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/testutils"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	db := testutils.InitDB(t)
	a := NewTest(db)

	user, err := a.CreateUser("alice@example.com", "alice", "password1", "password1")
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating user"))
	}

	assert.Equal(t, user.Email, "alice@example.com", "email mismatch")
	assert.Equal(t, user.Name, "alice", "name mismatch")
	assert.Equal(t, user.Active, true, "active mismatch")
	assert.Equal(t, user.Admin, false, "admin mismatch")
	assert.NotEqual(t, user.UUID, "", "uuid should be set")
	assert.NotEqual(t, user.Password, "password1", "password should be hashed")

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password1")); err != nil {
		t.Error("password hash does not match")
	}
}

func TestCreateUser_validation(t *testing.T) {
	db := testutils.InitDB(t)
	a := NewTest(db)
	testutils.SetupUserData(t, db, "taken@example.com", "taken")

	testCases := []struct {
		email        string
		name         string
		password     string
		confirmation string
		expectedErr  error
	}{
		{
			email:       "",
			name:        "alice",
			password:    "password1",
			expectedErr: ErrEmailRequired,
		},
		{
			email:       "alice@example.com",
			name:        "",
			password:    "password1",
			expectedErr: ErrNameRequired,
		},
		{
			email:       "alice@example.com",
			name:        "alice",
			password:    "short",
			expectedErr: ErrPasswordTooShort,
		},
		{
			email:        "alice@example.com",
			name:         "alice",
			password:     "password1",
			confirmation: "password2",
			expectedErr:  ErrPasswordConfirmationMismatch,
		},
		{
			email:       "taken@example.com",
			name:        "alice",
			password:    "password1",
			expectedErr: ErrDuplicateEmail,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			confirmation := tc.confirmation
			if confirmation == "" {
				confirmation = tc.password
			}

			_, err := a.CreateUser(tc.email, tc.name, tc.password, confirmation)
			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
		})
	}

	var count int64
	testutils.MustExec(t, db.Model(&database.User{}).Count(&count), "counting users")
	assert.Equal(t, count, int64(1), "user count mismatch")
}

func TestAuthenticate(t *testing.T) {
	db := testutils.InitDB(t)
	a := NewTest(db)

	if _, err := a.CreateUser("alice@example.com", "alice", "password1", "password1"); err != nil {
		t.Fatal(errors.Wrap(err, "creating user"))
	}

	t.Run("success", func(t *testing.T) {
		user, err := a.Authenticate("alice@example.com", "password1")
		if err != nil {
			t.Fatal(errors.Wrap(err, "authenticating"))
		}
		assert.Equal(t, user.Email, "alice@example.com", "email mismatch")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Authenticate("alice@example.com", "wrongpass")
		assert.Equal(t, errors.Cause(err), ErrLoginInvalid, "error mismatch")
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := a.Authenticate("nobody@example.com", "password1")
		assert.Equal(t, errors.Cause(err), ErrNotFound, "error mismatch")
	})

	t.Run("inactive account", func(t *testing.T) {
		testutils.MustExec(t, db.Model(&database.User{}).Where("email = ?", "alice@example.com").Update("active", false), "deactivating user")

		_, err := a.Authenticate("alice@example.com", "password1")
		assert.Equal(t, errors.Cause(err), ErrUserInactive, "error mismatch")
	})
}

func TestSignIn(t *testing.T) {
	db := testutils.InitDB(t)
	a := NewTest(db)
	c := a.Clock.(*clock.Mock)

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	c.SetNow(now)

	user, err := a.CreateUser("alice@example.com", "alice", "password1", "password1")
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating user"))
	}

	session, err := a.SignIn(&user)
	if err != nil {
		t.Fatal(errors.Wrap(err, "signing in"))
	}

	assert.Equal(t, session.UserID, user.ID, "session user mismatch")
	assert.NotEqual(t, session.Key, "", "session key should be set")
	if !session.ExpiresAt.Equal(now.Add(SessionValidityDur)) {
		t.Errorf("expiry mismatch: got %v", session.ExpiresAt)
	}

	var stored database.User
	testutils.MustExec(t, db.First(&stored, user.ID), "finding user")
	if stored.LastLoginAt == nil {
		t.Fatal("last login should be set")
	}
	if !stored.LastLoginAt.Equal(now) {
		t.Errorf("last login mismatch: got %v", stored.LastLoginAt)
	}
}

func TestTouchLastSeen(t *testing.T) {
	db := testutils.InitDB(t)
	a := NewTest(db)
	c := a.Clock.(*clock.Mock)

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	c.SetNow(now)

	user := testutils.SetupUserData(t, db, "alice@example.com", "alice")

	seen, err := a.TouchLastSeen(user)
	if err != nil {
		t.Fatal(errors.Wrap(err, "touching last seen"))
	}
	if !seen.Equal(now) {
		t.Errorf("returned timestamp mismatch: got %v", seen)
	}

	var stored database.User
	testutils.MustExec(t, db.First(&stored, user.ID), "finding user")
	if stored.LastSeenAt == nil {
		t.Fatal("last seen should be set")
	}
	if !stored.LastSeenAt.Equal(now) {
		t.Errorf("stored timestamp mismatch: got %v", stored.LastSeenAt)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := testutils.InitDB(t)
	a := NewTest(db)
	user := testutils.SetupUserData(t, db, "alice@example.com", "alice")
	testutils.SetupUserData(t, db, "taken@example.com", "taken")

	t.Run("success", func(t *testing.T) {
		name := "alice w"
		bio := "i write notes"

		updated, err := a.UpdateProfile(user, UpdateProfileParams{Name: &name, Bio: &bio})
		if err != nil {
			t.Fatal(errors.Wrap(err, "updating profile"))
		}

		assert.Equal(t, updated.Name, "alice w", "name mismatch")
		assert.Equal(t, updated.Bio, "i write notes", "bio mismatch")
		assert.Equal(t, updated.Email, "alice@example.com", "email should not have changed")
	})

	t.Run("duplicate email", func(t *testing.T) {
		email := "taken@example.com"
		_, err := a.UpdateProfile(user, UpdateProfileParams{Email: &email})
		assert.Equal(t, errors.Cause(err), ErrDuplicateEmail, "error mismatch")
	})

	t.Run("blank name", func(t *testing.T) {
		name := "  "
		_, err := a.UpdateProfile(user, UpdateProfileParams{Name: &name})
		assert.Equal(t, errors.Cause(err), ErrNameRequired, "error mismatch")
	})
}

func TestUpdatePassword(t *testing.T) {
	db := testutils.InitDB(t)
	a := NewTest(db)
	user := testutils.SetupUserData(t, db, "alice@example.com", "alice")

	if err := a.UpdatePassword(user, "newpassword", "newpassword"); err != nil {
		t.Fatal(errors.Wrap(err, "updating password"))
	}

	var stored database.User
	testutils.MustExec(t, db.First(&stored, user.ID), "finding user")
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpassword")); err != nil {
		t.Error("password hash does not match")
	}

	err := a.UpdatePassword(user, "short", "short")
	assert.Equal(t, errors.Cause(err), ErrPasswordTooShort, "error mismatch")
}
