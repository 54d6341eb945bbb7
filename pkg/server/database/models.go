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
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user account
type User struct {
	Model
	UUID        string     `json:"uuid" gorm:"type:text;index"`
	Email       string     `json:"email" gorm:"uniqueIndex"`
	Name        string     `json:"name" gorm:"index"`
	Bio         string     `json:"bio"`
	Password    string     `json:"-"`
	Admin       bool       `json:"is_admin" gorm:"default:false"`
	Active      bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at"`
	// LastSeenAt is the last activity timestamp recorded by the heartbeat
	// endpoint. It drives the online indicator.
	LastSeenAt *time.Time `json:"last_seen_at"`
}

// Note categories
const (
	CategoryPersonal = "PERSONAL"
	CategoryWork     = "WORK"
	CategorySchool   = "SCHOOL"
)

// ValidCategory checks if the given string is a known note category
func ValidCategory(c string) bool {
	return c == CategoryPersonal || c == CategoryWork || c == CategorySchool
}

// Note is a model for a note
type Note struct {
	Model
	UserID      int          `json:"user_id" gorm:"index"`
	User        User         `json:"user"`
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	Slug        string       `json:"slug" gorm:"uniqueIndex;type:text"`
	Category    string       `json:"category" gorm:"index;default:PERSONAL"`
	Attachments []Attachment `json:"attachments"`
	Bookmarks   []User       `json:"-" gorm:"many2many:bookmarks"`
	Ratings     []Rating     `json:"-"`
}

// Attachment is a model for a file attached to a note
type Attachment struct {
	Model
	NoteID   int    `json:"note_id" gorm:"index"`
	Filename string `json:"filename"`
	// Key is the location of the blob in the file store, namespaced by the
	// owning note's slug.
	Key  string `json:"-" gorm:"type:text;index"`
	Size int64  `json:"size"`
}

// Rating is a single user's rating of a note. A (note, user) pair has at most
// one rating; submitting again overwrites the value.
type Rating struct {
	Model
	NoteID int `json:"note_id" gorm:"uniqueIndex:idx_ratings_note_user"`
	UserID int `json:"user_id" gorm:"uniqueIndex:idx_ratings_note_user"`
	Value  int `json:"value"`
}

// Session represents a user session
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	LastUsedAt time.Time
	ExpiresAt  time.Time
}

// Token is a model for a single-use token
type Token struct {
	Model
	UserID int    `gorm:"index"`
	Value  string `gorm:"index"`
	Type   TokenType
	UsedAt *time.Time
}
