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

package job

import (
	"testing"
	"time"

	"github.com/noteshare/noteshare/pkg/assert"
	"github.com/noteshare/noteshare/pkg/clock"
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestClearExpiredSessions(t *testing.T) {
	db := testutils.InitDB(t)
	c := clock.NewMock()
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	c.SetNow(now)

	user := testutils.SetupUserData(t, db, "alice@example.com", "alice")

	live := database.Session{UserID: user.ID, Key: "live", ExpiresAt: now.Add(time.Hour)}
	expired := database.Session{UserID: user.ID, Key: "expired", ExpiresAt: now.Add(-time.Hour)}
	testutils.MustExec(t, db.Create(&live), "creating live session")
	testutils.MustExec(t, db.Create(&expired), "creating expired session")

	runner := NewRunner(db, c)
	if err := runner.ClearExpiredSessions(); err != nil {
		t.Fatal(errors.Wrap(err, "clearing sessions"))
	}

	var keys []string
	testutils.MustExec(t, db.Model(&database.Session{}).Pluck("key", &keys), "listing sessions")
	assert.DeepEqual(t, keys, []string{"live"}, "surviving sessions mismatch")
}

func TestClearStaleTokens(t *testing.T) {
	db := testutils.InitDB(t)
	c := clock.NewMock()
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	c.SetNow(now)

	user := testutils.SetupUserData(t, db, "alice@example.com", "alice")

	usedAt := now.Add(-time.Hour)
	fresh := database.Token{UserID: user.ID, Value: "fresh", Type: database.TokenTypeResetPassword}
	used := database.Token{UserID: user.ID, Value: "used", Type: database.TokenTypeResetPassword, UsedAt: &usedAt}
	testutils.MustExec(t, db.Create(&fresh), "creating fresh token")
	testutils.MustExec(t, db.Create(&used), "creating used token")

	old := database.Token{UserID: user.ID, Value: "old", Type: database.TokenTypeResetPassword}
	testutils.MustExec(t, db.Create(&old), "creating old token")
	testutils.MustExec(t, db.Model(&old).Update("created_at", now.Add(-48*time.Hour)), "backdating token")

	runner := NewRunner(db, c)
	if err := runner.ClearStaleTokens(); err != nil {
		t.Fatal(errors.Wrap(err, "clearing tokens"))
	}

	var values []string
	testutils.MustExec(t, db.Model(&database.Token{}).Pluck("value", &values), "listing tokens")
	assert.DeepEqual(t, values, []string{"fresh"}, "surviving tokens mismatch")
}
