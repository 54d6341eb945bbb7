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

// Package job schedules background maintenance tasks
package job

import (
	"time"

	"github.com/noteshare/noteshare/pkg/clock"
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"gorm.io/gorm"
)

// Runner owns the background task schedule
type Runner struct {
	DB    *gorm.DB
	Clock clock.Clock
	cron  *cron.Cron
}

// NewRunner returns a Runner for the given database
func NewRunner(db *gorm.DB, c clock.Clock) *Runner {
	return &Runner{DB: db, Clock: c, cron: cron.New()}
}

// Do starts the background task schedule
func (r *Runner) Do() error {
	if err := r.cron.AddFunc("@hourly", func() {
		if err := r.ClearExpiredSessions(); err != nil {
			log.ErrorWrap(err, "clearing expired sessions")
		}
	}); err != nil {
		return errors.Wrap(err, "scheduling session cleanup")
	}

	if err := r.cron.AddFunc("@hourly", func() {
		if err := r.ClearStaleTokens(); err != nil {
			log.ErrorWrap(err, "clearing stale tokens")
		}
	}); err != nil {
		return errors.Wrap(err, "scheduling token cleanup")
	}

	r.cron.Start()

	return nil
}

// Stop stops the background task schedule
func (r *Runner) Stop() {
	r.cron.Stop()
}

// ClearExpiredSessions removes sessions past their expiry
func (r *Runner) ClearExpiredSessions() error {
	err := r.DB.
		Where("expires_at < ?", r.Clock.Now()).
		Delete(&database.Session{}).Error
	if err != nil {
		return errors.Wrap(err, "deleting sessions")
	}

	return nil
}

// staleTokenAge is how long a token is kept around after creation
const staleTokenAge = 24 * time.Hour

// ClearStaleTokens removes used and old single-use tokens
func (r *Runner) ClearStaleTokens() error {
	err := r.DB.
		Where("used_at IS NOT NULL OR created_at < ?", r.Clock.Now().Add(-staleTokenAge)).
		Delete(&database.Token{}).Error
	if err != nil {
		return errors.Wrap(err, "deleting tokens")
	}

	return nil
}
