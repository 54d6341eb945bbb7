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

// Package app provides the business logic of the application
package app

import (
	"github.com/noteshare/noteshare/pkg/clock"
	"github.com/noteshare/noteshare/pkg/server/filestore"
	"github.com/noteshare/noteshare/pkg/server/mailer"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// App is an application context
type App struct {
	DB                  *gorm.DB
	Clock               clock.Clock
	Files               filestore.Store
	EmailBackend        mailer.Backend
	WebURL              string
	DisableRegistration bool
}

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("DB is empty")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("Clock is empty")
	// ErrEmptyFiles is an error for missing file store in the app configuration
	ErrEmptyFiles = errors.New("Files is empty")
	// ErrEmptyEmailBackend is an error for missing email backend in the app configuration
	ErrEmptyEmailBackend = errors.New("EmailBackend is empty")
	// ErrEmptyWebURL is an error for missing web url in the app configuration
	ErrEmptyWebURL = errors.New("WebURL is empty")
)

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.Files == nil {
		return ErrEmptyFiles
	}
	if a.EmailBackend == nil {
		return ErrEmptyEmailBackend
	}
	if a.WebURL == "" {
		return ErrEmptyWebURL
	}

	return nil
}
