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

// Package testutils provides utilities used in tests
package testutils

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens a throwaway database for a test and initializes the schema
func InitDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening database"))
	}

	database.InitSchema(db)

	return db
}

// SetupUserData creates a user with the given email and name
func SetupUserData(t *testing.T, db *gorm.DB, email, name string) database.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(errors.Wrap(err, "hashing password"))
	}

	user := database.User{
		UUID:     uuid.NewString(),
		Email:    email,
		Name:     name,
		Active:   true,
		Password: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(errors.Wrap(err, "creating user"))
	}

	return user
}

// SetupAdminData creates an admin user with the given email and name
func SetupAdminData(t *testing.T, db *gorm.DB, email, name string) database.User {
	t.Helper()

	user := SetupUserData(t, db, email, name)
	if err := db.Model(&user).Update("admin", true).Error; err != nil {
		t.Fatal(errors.Wrap(err, "marking user admin"))
	}
	user.Admin = true

	return user
}

// SetupNoteData creates a note owned by the given user
func SetupNoteData(t *testing.T, db *gorm.DB, user database.User, title, body, slug string) database.Note {
	t.Helper()

	note := database.Note{
		UserID:   user.ID,
		Title:    title,
		Body:     body,
		Slug:     slug,
		Category: database.CategoryPersonal,
	}
	if err := db.Create(&note).Error; err != nil {
		t.Fatal(errors.Wrap(err, "creating note"))
	}
	note.User = user

	return note
}

// SetupSessionData creates a session for the given user
func SetupSessionData(t *testing.T, db *gorm.DB, user database.User) database.Session {
	t.Helper()

	session := database.Session{
		UserID:     user.ID,
		Key:        fmt.Sprintf("testkey-%s", uuid.NewString()),
		LastUsedAt: time.Now(),
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatal(errors.Wrap(err, "creating session"))
	}

	return session
}

// MustExec fails the test if the given database operation returns an error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	t.Helper()

	if err := db.Error; err != nil {
		t.Fatal(errors.Wrap(err, message))
	}
}

// MakeReq makes an HTTP request to the given endpoint
func MakeReq(t *testing.T, serverURL, method, path, data string) *http.Request {
	t.Helper()

	endpoint := fmt.Sprintf("%s%s", serverURL, path)

	req, err := http.NewRequest(method, endpoint, strings.NewReader(data))
	if err != nil {
		t.Fatal(errors.Wrap(err, "constructing request"))
	}
	if data != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

// HTTPDo makes an HTTP request and returns the response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	client := &http.Client{
		// Do not follow redirects
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	res, err := client.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "making http request"))
	}

	return res
}

// HTTPAuthDo makes an HTTP request with a session for the given user
func HTTPAuthDo(t *testing.T, db *gorm.DB, req *http.Request, user database.User) *http.Response {
	t.Helper()

	session := SetupSessionData(t, db, user)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", session.Key))

	return HTTPDo(t, req)
}

// MustReadBody reads the whole response body
func MustReadBody(t *testing.T, res *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading body"))
	}

	return string(body)
}
