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
	"fmt"
	"io"
	"path"

	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/filestore"
	"github.com/noteshare/noteshare/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AttachmentUpload is an attachment to be stored alongside a note
type AttachmentUpload struct {
	Filename string
	Content  io.Reader
}

// attachmentKey builds the blob key for an attachment. The record ID keeps
// keys unique even when two attachments of a note share a filename.
func attachmentKey(slug string, attachmentID int, filename string) string {
	return fmt.Sprintf("notes/%s/%d-%s", slug, attachmentID, path.Base(filename))
}

// storeAttachment creates an attachment record for the given note and uploads
// its content to the file store. The caller owns the transaction; every blob
// key is appended to storedKeys the moment the blob exists, so the caller can
// remove it if the transaction rolls back later, including a failure of the
// final record save.
func (a *App) storeAttachment(tx *gorm.DB, note database.Note, upload AttachmentUpload, storedKeys *[]string) (database.Attachment, error) {
	att := database.Attachment{
		NoteID:   note.ID,
		Filename: path.Base(upload.Filename),
	}
	if err := tx.Create(&att).Error; err != nil {
		return att, errors.Wrap(err, "creating attachment")
	}

	att.Key = attachmentKey(note.Slug, att.ID, upload.Filename)

	size, err := a.Files.Put(att.Key, upload.Content)
	if err != nil {
		return att, errors.Wrapf(err, "storing blob for %s", att.Filename)
	}
	*storedKeys = append(*storedKeys, att.Key)
	att.Size = size

	if err := tx.Save(&att).Error; err != nil {
		return att, errors.Wrap(err, "saving attachment")
	}

	return att, nil
}

// pruneAttachments deletes the attachments of the given note whose IDs are
// not in keepIDs. It returns the blob keys of the deleted records so the
// caller can remove the blobs after committing.
func (a *App) pruneAttachments(tx *gorm.DB, note database.Note, keepIDs []int) ([]string, error) {
	keep := map[int]bool{}
	for _, id := range keepIDs {
		keep[id] = true
	}

	var attachments []database.Attachment
	if err := tx.Where("note_id = ?", note.ID).Find(&attachments).Error; err != nil {
		return nil, errors.Wrap(err, "finding attachments")
	}

	var keys []string
	for _, att := range attachments {
		if keep[att.ID] {
			continue
		}

		if err := tx.Delete(&att).Error; err != nil {
			return nil, errors.Wrapf(err, "deleting attachment %d", att.ID)
		}
		keys = append(keys, att.Key)
	}

	return keys, nil
}

// GetAttachment finds an attachment of the given note by ID. The second
// return value indicates whether the attachment was found.
func (a *App) GetAttachment(note database.Note, attachmentID int) (database.Attachment, bool, error) {
	var att database.Attachment
	conn := a.DB.Where("note_id = ? AND id = ?", note.ID, attachmentID).First(&att)

	if errors.Is(conn.Error, gorm.ErrRecordNotFound) {
		return att, false, nil
	}
	if conn.Error != nil {
		return att, false, errors.Wrap(conn.Error, "finding attachment")
	}

	return att, true, nil
}

// OpenAttachment opens the blob of the given attachment for reading
func (a *App) OpenAttachment(att database.Attachment) (io.ReadCloser, error) {
	r, err := a.Files.Open(att.Key)
	if errors.Is(err, filestore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening blob for %s", att.Filename)
	}

	return r, nil
}

// RemoveAttachment deletes a single attachment of the given note. The record
// always goes away; a missing blob is tolerated.
func (a *App) RemoveAttachment(user database.User, note database.Note, att database.Attachment) error {
	if !permissions.ModifyNote(&user, note) {
		return ErrPermissionDenied
	}

	if err := a.DB.Delete(&att).Error; err != nil {
		return errors.Wrap(err, "deleting attachment")
	}

	a.removeBlobs([]string{att.Key})

	return nil
}
