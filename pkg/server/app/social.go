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
	"math"
	"time"

	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OnlineWindow is how recently a user must have been seen to count as online
const OnlineWindow = 120 * time.Second

// NoteMeta is the social metadata of a note, optionally from the point of
// view of a viewer
type NoteMeta struct {
	// AvgRating is the mean rating rounded to one decimal, nil when unrated
	AvgRating *float64
	// RatingsCount is the number of ratings the note has received
	RatingsCount int64
	// ViewerRating is the rating the viewer gave, nil for anonymous viewers
	// or viewers who have not rated
	ViewerRating *int
	// Bookmarked indicates whether the viewer bookmarked the note
	Bookmarked bool
}

// GetNoteMeta computes the social metadata of the given note. The viewer may
// be nil for anonymous reads.
func (a *App) GetNoteMeta(note database.Note, viewer *database.User) (NoteMeta, error) {
	var meta NoteMeta

	var agg struct {
		Count int64
		Avg   *float64
	}
	err := a.DB.Model(&database.Rating{}).
		Select("COUNT(*) AS count, AVG(value) AS avg").
		Where("note_id = ?", note.ID).
		Scan(&agg).Error
	if err != nil {
		return meta, errors.Wrap(err, "aggregating ratings")
	}

	meta.RatingsCount = agg.Count
	if agg.Avg != nil {
		avg := math.Round(*agg.Avg*10) / 10
		meta.AvgRating = &avg
	}

	if viewer == nil {
		return meta, nil
	}

	var rating database.Rating
	err = a.DB.Where("note_id = ? AND user_id = ?", note.ID, viewer.ID).First(&rating).Error
	if err == nil {
		meta.ViewerRating = &rating.Value
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return meta, errors.Wrap(err, "finding viewer rating")
	}

	bookmarked, err := a.IsBookmarked(note, *viewer)
	if err != nil {
		return meta, err
	}
	meta.Bookmarked = bookmarked

	return meta, nil
}

// RateNote records the given user's rating of the given note, replacing any
// previous rating by the same user
func (a *App) RateNote(user database.User, note database.Note, value int) error {
	if value < 1 || value > 5 {
		return ErrRatingOutOfRange
	}

	rating := database.Rating{
		NoteID: note.ID,
		UserID: user.ID,
		Value:  value,
	}
	err := a.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "note_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": a.Clock.Now(),
		}),
	}).Create(&rating).Error
	if err != nil {
		return errors.Wrap(err, "upserting rating")
	}

	return nil
}

// DeleteRating removes the given user's rating of the given note, if any
func (a *App) DeleteRating(user database.User, note database.Note) error {
	err := a.DB.
		Where("note_id = ? AND user_id = ?", note.ID, user.ID).
		Delete(&database.Rating{}).Error
	if err != nil {
		return errors.Wrap(err, "deleting rating")
	}

	return nil
}

// AddBookmark bookmarks the given note for the given user. Bookmarking an
// already bookmarked note is a no-op.
func (a *App) AddBookmark(user database.User, note database.Note) error {
	err := a.DB.Exec(
		"INSERT OR IGNORE INTO bookmarks (note_id, user_id) VALUES (?, ?)",
		note.ID, user.ID,
	).Error
	if err != nil {
		return errors.Wrap(err, "inserting bookmark")
	}

	return nil
}

// RemoveBookmark removes the given user's bookmark of the given note, if any
func (a *App) RemoveBookmark(user database.User, note database.Note) error {
	err := a.DB.Exec(
		"DELETE FROM bookmarks WHERE note_id = ? AND user_id = ?",
		note.ID, user.ID,
	).Error
	if err != nil {
		return errors.Wrap(err, "deleting bookmark")
	}

	return nil
}

// IsBookmarked checks whether the given user bookmarked the given note
func (a *App) IsBookmarked(note database.Note, user database.User) (bool, error) {
	var count int64
	err := a.DB.Table("bookmarks").
		Where("note_id = ? AND user_id = ?", note.ID, user.ID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "counting bookmarks")
	}

	return count > 0, nil
}

// UserOnline checks whether the given user was seen within the online window
func (a *App) UserOnline(user database.User) bool {
	if user.LastSeenAt == nil {
		return false
	}

	return a.Clock.Now().Sub(*user.LastSeenAt) < OnlineWindow
}
