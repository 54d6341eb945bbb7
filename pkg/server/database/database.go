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

package database

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/noteshare/noteshare/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Note{},
		&Attachment{},
		&Rating{},
		&Session{},
		&Token{},
	); err != nil {
		panic(err)
	}
}

// Open initializes the database connection
func Open(dbPath string) *gorm.DB {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(errors.Wrapf(err, "creating database directory at %s", dir))
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		panic(errors.Wrap(err, "opening database connection"))
	}

	return db
}

// IsUniqueConstraintError checks if the given error is a violation of a
// unique index
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// PreloadNote preloads associations needed for presenting a note
func PreloadNote(conn *gorm.DB) *gorm.DB {
	return conn.Preload("User").Preload("Attachments")
}

// StartWALCheckpointing periodically checkpoints the write-ahead log so that
// it does not grow unbounded.
func StartWALCheckpointing(db *gorm.DB, interval time.Duration) {
	go func() {
		for range time.Tick(interval) {
			if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
				log.ErrorWrap(err, "checkpointing WAL")
			}
		}
	}()
}

// StartPeriodicVacuum periodically vacuums the database to reclaim space.
func StartPeriodicVacuum(db *gorm.DB, interval time.Duration) {
	go func() {
		for range time.Tick(interval) {
			if err := db.Exec("VACUUM").Error; err != nil {
				log.ErrorWrap(err, "vacuuming database")
			}
		}
	}()
}
