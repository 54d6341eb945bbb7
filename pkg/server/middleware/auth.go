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
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/noteshare/noteshare/pkg/clock"
	"github.com/noteshare/noteshare/pkg/server/context"
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// sessionCacheSize bounds the number of sessions kept in memory
const sessionCacheSize = 1024

// sessionCacheTTL bounds how stale a cached session may get. Flag changes
// such as deactivation take effect within this window.
const sessionCacheTTL = time.Minute

type sessionEntry struct {
	user     database.User
	cachedAt time.Time
}

// Authenticator resolves a session key from a request into a user. Lookups
// are cached to keep a database roundtrip off the hot path.
type Authenticator struct {
	db    *gorm.DB
	clock clock.Clock
	cache *lru.Cache[string, sessionEntry]
}

// NewAuthenticator returns an Authenticator backed by the given database
func NewAuthenticator(db *gorm.DB, c clock.Clock) (*Authenticator, error) {
	cache, err := lru.New[string, sessionEntry](sessionCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating session cache")
	}

	return &Authenticator{db: db, clock: c, cache: cache}, nil
}

func sessionKeyFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// Lookup finds the user a request is authenticated as. It returns nil for
// anonymous requests and requests with invalid or expired sessions.
func (a *Authenticator) Lookup(r *http.Request) (*database.User, error) {
	key := sessionKeyFromRequest(r)
	if key == "" {
		return nil, nil
	}

	now := a.clock.Now()

	if entry, ok := a.cache.Get(key); ok && now.Sub(entry.cachedAt) < sessionCacheTTL {
		user := entry.user
		return &user, nil
	}

	var session database.Session
	err := a.db.Where("key = ?", key).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding session")
	}

	if session.ExpiresAt.Before(now) {
		return nil, nil
	}

	var user database.User
	err = a.db.Where("id = ?", session.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding session user")
	}

	if !user.Active {
		return nil, nil
	}

	a.cache.Add(key, sessionEntry{user: user, cachedAt: now})

	return &user, nil
}

// Invalidate drops the cached session with the given key
func (a *Authenticator) Invalidate(key string) {
	a.cache.Remove(key)
}

// WithUser resolves the session on the request, if any, and makes the user
// available in the request context. Anonymous requests proceed.
func WithUser(authn *Authenticator, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := authn.Lookup(r)
		if err != nil {
			DoError(w, "looking up session", err, http.StatusInternalServerError)
			return
		}

		if user != nil {
			r = r.WithContext(context.WithUser(r.Context(), user))
		}

		next(w, r)
	}
}

// RequireUser rejects anonymous requests
func RequireUser(authn *Authenticator, next http.HandlerFunc) http.HandlerFunc {
	return WithUser(authn, func(w http.ResponseWriter, r *http.Request) {
		if context.User(r.Context()) == nil {
			RespondUnauthorized(w)
			return
		}

		next(w, r)
	})
}
