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

package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/noteshare/noteshare/pkg/assert"
	"github.com/noteshare/noteshare/pkg/server/app"
	"github.com/noteshare/noteshare/pkg/server/middleware"
	"github.com/noteshare/noteshare/pkg/server/presenters"
	"github.com/noteshare/noteshare/pkg/server/testutils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func setupServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	db := testutils.InitDB(t)
	a := app.NewTest(db)

	authn, err := middleware.NewAuthenticator(db, a.Clock)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating authenticator"))
	}

	handler, err := NewRouter(&a, authn)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating router"))
	}

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server, db
}

func TestHealth(t *testing.T) {
	server, _ := setupServer(t)

	res := testutils.HTTPDo(t, testutils.MakeReq(t, server.URL, "GET", "/health", ""))
	defer res.Body.Close()

	assert.StatusCodeEquals(t, res, 200, "health check")
}

func TestRegisterAndSignIn(t *testing.T) {
	server, _ := setupServer(t)

	res := testutils.HTTPDo(t, testutils.MakeReq(t, server.URL, "POST", "/v1/register",
		`{"email": "alice@example.com", "name": "alice", "password": "password1", "password_confirmation": "password1"}`))
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 201, "registering")

	var session sessionResp
	if err := json.NewDecoder(res.Body).Decode(&session); err != nil {
		t.Fatal(errors.Wrap(err, "decoding session"))
	}
	assert.NotEqual(t, session.Key, "", "session key should be set")

	res = testutils.HTTPDo(t, testutils.MakeReq(t, server.URL, "POST", "/v1/signin",
		`{"email": "alice@example.com", "password": "password1"}`))
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 200, "signing in")

	res = testutils.HTTPDo(t, testutils.MakeReq(t, server.URL, "POST", "/v1/signin",
		`{"email": "alice@example.com", "password": "wrongpass"}`))
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 401, "signing in with a wrong password")
}

func TestNoteLifecycle(t *testing.T) {
	server, db := setupServer(t)
	alice := testutils.SetupUserData(t, db, "alice@example.com", "alice")
	bob := testutils.SetupUserData(t, db, "bob@example.com", "bob")

	// Anonymous creation is rejected
	res := testutils.HTTPDo(t, testutils.MakeReq(t, server.URL, "POST", "/v1/notes",
		`{"title": "Trip Plan", "body": "pack the tent"}`))
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 401, "creating anonymously")

	res = testutils.HTTPAuthDo(t, db, testutils.MakeReq(t, server.URL, "POST", "/v1/notes",
		`{"title": "Trip Plan", "body": "pack the tent"}`), alice)
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 201, "creating a note")

	var created presenters.Note
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatal(errors.Wrap(err, "decoding note"))
	}
	assert.Equal(t, created.Slug, "trip-plan", "slug mismatch")

	// Anonymous reads succeed
	res = testutils.HTTPDo(t, testutils.MakeReq(t, server.URL, "GET", "/v1/notes/trip-plan", ""))
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 200, "reading anonymously")

	// Bob rates the note
	res = testutils.HTTPAuthDo(t, db, testutils.MakeReq(t, server.URL, "POST", "/v1/notes/trip-plan/rating",
		`{"value": 4}`), bob)
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 200, "rating a note")

	var rated presenters.Note
	if err := json.NewDecoder(res.Body).Decode(&rated); err != nil {
		t.Fatal(errors.Wrap(err, "decoding rated note"))
	}
	if rated.AvgRating == nil {
		t.Fatal("average should not be nil")
	}
	assert.Equal(t, *rated.AvgRating, 4.0, "average mismatch")
	assert.Equal(t, rated.RatingsCount, int64(1), "count mismatch")

	// Out-of-range value is a validation failure
	res = testutils.HTTPAuthDo(t, db, testutils.MakeReq(t, server.URL, "POST", "/v1/notes/trip-plan/rating",
		`{"value": 9}`), bob)
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 400, "rating out of range")

	// Bob cannot delete Alice's note
	res = testutils.HTTPAuthDo(t, db, testutils.MakeReq(t, server.URL, "DELETE", "/v1/notes/trip-plan", ""), bob)
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 403, "deleting someone else's note")

	res = testutils.HTTPAuthDo(t, db, testutils.MakeReq(t, server.URL, "DELETE", "/v1/notes/trip-plan", ""), alice)
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 204, "deleting own note")

	res = testutils.HTTPDo(t, testutils.MakeReq(t, server.URL, "GET", "/v1/notes/trip-plan", ""))
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 404, "reading a deleted note")
}

func TestUserNotes(t *testing.T) {
	server, db := setupServer(t)
	alice := testutils.SetupUserData(t, db, "alice@example.com", "alice")
	bob := testutils.SetupUserData(t, db, "bob@example.com", "bob")
	testutils.SetupNoteData(t, db, alice, "Trip Plan", "pack the tent", "trip-plan")
	testutils.SetupNoteData(t, db, bob, "Groceries", "milk and eggs", "groceries")

	res := testutils.HTTPDo(t, testutils.MakeReq(t, server.URL, "GET", "/v1/users/alice/notes", ""))
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 200, "listing a user's notes")

	var notes []presenters.Note
	if err := json.NewDecoder(res.Body).Decode(&notes); err != nil {
		t.Fatal(errors.Wrap(err, "decoding notes"))
	}
	assert.Equal(t, len(notes), 1, "note count mismatch")
	assert.Equal(t, notes[0].Slug, "trip-plan", "slug mismatch")

	res = testutils.HTTPDo(t, testutils.MakeReq(t, server.URL, "GET", "/v1/users/nobody/notes", ""))
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 404, "listing an unknown user's notes")
}

func TestAdminEndpoints(t *testing.T) {
	server, db := setupServer(t)
	alice := testutils.SetupUserData(t, db, "alice@example.com", "alice")

	res := testutils.HTTPAuthDo(t, db, testutils.MakeReq(t, server.URL, "GET", "/v1/admin/users", ""), alice)
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 403, "listing users as non-admin")

	admin := testutils.SetupAdminData(t, db, "root@example.com", "root")
	res = testutils.HTTPAuthDo(t, db, testutils.MakeReq(t, server.URL, "GET", "/v1/admin/users?all=true", ""), admin)
	defer res.Body.Close()
	assert.StatusCodeEquals(t, res, 200, "listing users as admin")

	var records []presenters.AdminUser
	if err := json.NewDecoder(res.Body).Decode(&records); err != nil {
		t.Fatal(errors.Wrap(err, "decoding records"))
	}
	assert.Equal(t, len(records), 2, "record count mismatch")
}
