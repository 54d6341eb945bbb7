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

package middleware

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/noteshare/noteshare/pkg/assert"
	"github.com/noteshare/noteshare/pkg/clock"
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestSessionKeyFromRequest(t *testing.T) {
	testCases := []struct {
		header   string
		expected string
	}{
		{header: "", expected: ""},
		{header: "Bearer somekey", expected: "somekey"},
		{header: "Basic somekey", expected: ""},
		{header: "somekey", expected: ""},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			assert.Equal(t, sessionKeyFromRequest(req), tc.expected, "key mismatch")
		})
	}
}

func TestAuthenticatorLookup(t *testing.T) {
	db := testutils.InitDB(t)
	c := clock.NewMock()
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	c.SetNow(now)

	authn, err := NewAuthenticator(db, c)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating authenticator"))
	}

	user := testutils.SetupUserData(t, db, "alice@example.com", "alice")

	valid := database.Session{UserID: user.ID, Key: "valid", ExpiresAt: now.Add(time.Hour)}
	expired := database.Session{UserID: user.ID, Key: "expired", ExpiresAt: now.Add(-time.Hour)}
	testutils.MustExec(t, db.Create(&valid), "creating valid session")
	testutils.MustExec(t, db.Create(&expired), "creating expired session")

	lookup := func(header string) *database.User {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		found, err := authn.Lookup(req)
		if err != nil {
			t.Fatal(errors.Wrap(err, "looking up session"))
		}

		return found
	}

	t.Run("valid session", func(t *testing.T) {
		found := lookup("Bearer valid")
		if found == nil {
			t.Fatal("user should have been found")
		}
		assert.Equal(t, found.ID, user.ID, "user mismatch")
	})

	t.Run("expired session", func(t *testing.T) {
		if found := lookup("Bearer expired"); found != nil {
			t.Errorf("user should not have been found, got %+v", found)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		if found := lookup("Bearer bogus"); found != nil {
			t.Errorf("user should not have been found, got %+v", found)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		if found := lookup(""); found != nil {
			t.Errorf("user should not have been found, got %+v", found)
		}
	})

	t.Run("invalidated session", func(t *testing.T) {
		lookup("Bearer valid")
		authn.Invalidate("valid")
		testutils.MustExec(t, db.Where("key = ?", "valid").Delete(&database.Session{}), "deleting session")

		if found := lookup("Bearer valid"); found != nil {
			t.Errorf("user should not have been found, got %+v", found)
		}
	})
}
