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
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/pkg/errors"
)

// SessionValidityDur is how long a session stays valid after sign in
const SessionValidityDur = 30 * 24 * time.Hour

// CreateSession creates a session for the given user
func (a *App) CreateSession(userID int) (database.Session, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return database.Session{}, errors.Wrap(err, "reading random bytes")
	}

	now := a.Clock.Now()
	session := database.Session{
		UserID:     userID,
		Key:        base64.StdEncoding.EncodeToString(b),
		LastUsedAt: now,
		ExpiresAt:  now.Add(SessionValidityDur),
	}
	if err := a.DB.Save(&session).Error; err != nil {
		return database.Session{}, errors.Wrap(err, "saving session")
	}

	return session, nil
}

// DeleteSession deletes the session with the given key
func (a *App) DeleteSession(key string) error {
	if err := a.DB.Where("key = ?", key).Delete(&database.Session{}).Error; err != nil {
		return errors.Wrap(err, "deleting session")
	}

	return nil
}

// TouchLastUsedAt updates the last used timestamp of the given session
func (a *App) TouchLastUsedAt(session database.Session) error {
	err := a.DB.Model(&session).Update("last_used_at", a.Clock.Now()).Error
	if err != nil {
		return errors.Wrap(err, "updating last_used_at")
	}

	return nil
}
