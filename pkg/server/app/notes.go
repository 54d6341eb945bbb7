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
	"strings"

	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/log"
	"github.com/noteshare/noteshare/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// slugMaxRetries is how many times a note creation is retried when a
// concurrent request claims the same slug between the collision count and the
// insert. The unique index on notes.slug surfaces the race as a constraint
// error.
const slugMaxRetries = 3

// CreateNoteParams is the information needed to create a note
type CreateNoteParams struct {
	Title       string
	Body        string
	Category    string
	Attachments []AttachmentUpload
}

func validateCreateNoteParams(p CreateNoteParams) error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(p.Body) == "" {
		return ErrBodyRequired
	}
	if p.Category != "" && !database.ValidCategory(p.Category) {
		return ErrInvalidCategory
	}

	return nil
}

// CreateNote creates a note with the given attachments. The note and all of
// its attachment records are committed atomically; on failure any blobs that
// were already uploaded are removed.
func (a *App) CreateNote(user database.User, p CreateNoteParams) (database.Note, error) {
	if err := validateCreateNoteParams(p); err != nil {
		return database.Note{}, err
	}

	category := p.Category
	if category == "" {
		category = database.CategoryPersonal
	}

	var note database.Note
	var err error
	for i := 0; i < slugMaxRetries; i++ {
		note, err = a.createNote(user, p, category)
		if err == nil {
			return note, nil
		}
		if !database.IsUniqueConstraintError(errors.Cause(err)) {
			return database.Note{}, err
		}
	}

	return database.Note{}, errors.Wrap(err, "claiming slug")
}

func (a *App) createNote(user database.User, p CreateNoteParams, category string) (database.Note, error) {
	var note database.Note
	var storedKeys []string

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		slug, err := nextSlug(tx, p.Title)
		if err != nil {
			return err
		}

		note = database.Note{
			UserID:   user.ID,
			Title:    p.Title,
			Body:     p.Body,
			Slug:     slug,
			Category: category,
		}
		if err := tx.Create(&note).Error; err != nil {
			return errors.Wrap(err, "creating note")
		}

		for _, upload := range p.Attachments {
			att, err := a.storeAttachment(tx, note, upload, &storedKeys)
			if err != nil {
				return err
			}

			note.Attachments = append(note.Attachments, att)
		}

		return nil
	})
	if err != nil {
		a.removeBlobs(storedKeys)
		return database.Note{}, err
	}

	note.User = user

	return note, nil
}

// UpdateNoteParams is the information needed to update a note. Nil fields are
// left untouched. KeepAttachmentIDs nil keeps every existing attachment;
// non-nil deletes any existing attachment whose ID is not listed, so an empty
// list deletes them all.
type UpdateNoteParams struct {
	Title             *string
	Body              *string
	Category          *string
	KeepAttachmentIDs *[]int
	NewAttachments    []AttachmentUpload
}

func validateUpdateNoteParams(p UpdateNoteParams) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrTitleRequired
	}
	if p.Body != nil && strings.TrimSpace(*p.Body) == "" {
		return ErrBodyRequired
	}
	if p.Category != nil && !database.ValidCategory(*p.Category) {
		return ErrInvalidCategory
	}

	return nil
}

// UpdateNote updates the fields of the given note and reconciles its
// attachments. The slug never changes once assigned, even if the title does.
func (a *App) UpdateNote(user database.User, note database.Note, p UpdateNoteParams) (database.Note, error) {
	if !permissions.ModifyNote(&user, note) {
		return database.Note{}, ErrPermissionDenied
	}
	if err := validateUpdateNoteParams(p); err != nil {
		return database.Note{}, err
	}

	var storedKeys, removedKeys []string

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"updated_at": a.Clock.Now(),
		}
		if p.Title != nil {
			updates["title"] = *p.Title
		}
		if p.Body != nil {
			updates["body"] = *p.Body
		}
		if p.Category != nil {
			updates["category"] = *p.Category
		}

		if err := tx.Model(&database.Note{}).Where("id = ?", note.ID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "saving note")
		}

		if p.KeepAttachmentIDs != nil {
			keys, err := a.pruneAttachments(tx, note, *p.KeepAttachmentIDs)
			if err != nil {
				return err
			}
			removedKeys = keys
		}

		for _, upload := range p.NewAttachments {
			if _, err := a.storeAttachment(tx, note, upload, &storedKeys); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		a.removeBlobs(storedKeys)
		return database.Note{}, err
	}

	// Blobs for pruned attachments go away only after the records are
	// committed. A leftover blob is garbage; a dangling record is a bug.
	a.removeBlobs(removedKeys)

	var ret database.Note
	if err := database.PreloadNote(a.DB).Where("notes.id = ?", note.ID).First(&ret).Error; err != nil {
		return database.Note{}, errors.Wrap(err, "reloading note")
	}

	return ret, nil
}

// DeleteNote removes the given note along with its attachments, ratings and
// bookmarks
func (a *App) DeleteNote(user database.User, note database.Note) error {
	if !permissions.ModifyNote(&user, note) {
		return ErrPermissionDenied
	}

	var keys []string

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var attachments []database.Attachment
		if err := tx.Where("note_id = ?", note.ID).Find(&attachments).Error; err != nil {
			return errors.Wrap(err, "finding attachments")
		}
		for _, att := range attachments {
			keys = append(keys, att.Key)
		}

		if err := tx.Where("note_id = ?", note.ID).Delete(&database.Attachment{}).Error; err != nil {
			return errors.Wrap(err, "deleting attachments")
		}
		if err := tx.Where("note_id = ?", note.ID).Delete(&database.Rating{}).Error; err != nil {
			return errors.Wrap(err, "deleting ratings")
		}
		if err := tx.Exec("DELETE FROM bookmarks WHERE note_id = ?", note.ID).Error; err != nil {
			return errors.Wrap(err, "deleting bookmarks")
		}
		if err := tx.Delete(&note).Error; err != nil {
			return errors.Wrap(err, "deleting note")
		}

		return nil
	})
	if err != nil {
		return err
	}

	a.removeBlobs(keys)

	return nil
}

// GetNoteBySlug finds a note with the given slug. The second return value
// indicates whether the note was found.
func (a *App) GetNoteBySlug(slug string) (database.Note, bool, error) {
	var note database.Note
	conn := database.PreloadNote(a.DB).Where("notes.slug = ?", slug).First(&note)

	if errors.Is(conn.Error, gorm.ErrRecordNotFound) {
		return note, false, nil
	}
	if conn.Error != nil {
		return note, false, errors.Wrap(conn.Error, "finding note")
	}

	return note, true, nil
}

// GetNotesParams is the filter criteria for listing notes
type GetNotesParams struct {
	// OwnerID, when non-zero, limits the listing to notes owned by the user
	OwnerID int
	// BookmarkedBy, when non-zero, limits the listing to notes bookmarked by the user
	BookmarkedBy int
	// Search, when non-empty, limits the listing to notes whose title, body or
	// category contains the term, case-insensitively
	Search string
}

// GetNotes finds notes matching the given criteria, most recently updated
// first
func (a *App) GetNotes(p GetNotesParams) ([]database.Note, error) {
	conn := a.DB.Model(&database.Note{})

	if p.OwnerID != 0 {
		conn = conn.Where("notes.user_id = ?", p.OwnerID)
	}
	if p.BookmarkedBy != 0 {
		conn = conn.
			Joins("INNER JOIN bookmarks ON bookmarks.note_id = notes.id").
			Where("bookmarks.user_id = ?", p.BookmarkedBy)
	}
	if p.Search != "" {
		term := "%" + strings.ToLower(p.Search) + "%"
		conn = conn.Where(
			"LOWER(notes.title) LIKE ? OR LOWER(notes.body) LIKE ? OR LOWER(notes.category) LIKE ?",
			term, term, term,
		)
	}

	conn = database.PreloadNote(conn).Order("notes.updated_at DESC, notes.created_at DESC, notes.id DESC")

	var notes []database.Note
	if err := conn.Find(&notes).Error; err != nil {
		return nil, errors.Wrap(err, "finding notes")
	}

	return notes, nil
}

// searchResultLimit is the maximum number of quick search results
const searchResultLimit = 10

// snippetLength is how many characters of the body a search result carries
const snippetLength = 50

// SearchResult is a single result of a quick note search
type SearchResult struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// SearchNotes searches the given user's own notes for the given term and
// returns up to ten of the newest matches with a body snippet
func (a *App) SearchNotes(user database.User, query string) ([]SearchResult, error) {
	results := []SearchResult{}
	if strings.TrimSpace(query) == "" {
		return results, nil
	}

	term := "%" + strings.ToLower(query) + "%"

	var notes []database.Note
	err := a.DB.
		Where("user_id = ?", user.ID).
		Where("LOWER(title) LIKE ? OR LOWER(body) LIKE ?", term, term).
		Order("id DESC").
		Limit(searchResultLimit).
		Find(&notes).Error
	if err != nil {
		return nil, errors.Wrap(err, "searching notes")
	}

	for _, note := range notes {
		snippet := note.Body
		if runes := []rune(snippet); len(runes) > snippetLength {
			snippet = string(runes[:snippetLength])
		}

		results = append(results, SearchResult{
			ID:      note.ID,
			Title:   note.Title,
			Snippet: snippet,
		})
	}

	return results, nil
}

// removeBlobs deletes the given blobs from the file store. Failures are
// logged and not propagated because the records are the source of truth.
func (a *App) removeBlobs(keys []string) {
	for _, key := range keys {
		if err := a.Files.Delete(key); err != nil {
			log.WithFields(log.Fields{
				"key": key,
			}).ErrorWrap(err, "removing blob")
		}
	}
}
