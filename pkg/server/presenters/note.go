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

package presenters

import (
	"github.com/noteshare/noteshare/pkg/server/app"
	"github.com/noteshare/noteshare/pkg/server/database"
)

// NoteUser is the presented owner of a note
type NoteUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Attachment is a presented attachment
type Attachment struct {
	ID        int    `json:"id"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	CreatedAt int64  `json:"created_at"`
}

// Note is a presented note
type Note struct {
	ID           int          `json:"id"`
	Slug         string       `json:"slug"`
	Title        string       `json:"title"`
	Body         string       `json:"body"`
	Category     string       `json:"category"`
	CreatedAt    int64        `json:"created_at"`
	UpdatedAt    int64        `json:"updated_at"`
	User         NoteUser     `json:"user"`
	Attachments  []Attachment `json:"attachments"`
	AvgRating    *float64     `json:"avg_rating"`
	RatingsCount int64        `json:"ratings_count"`
	UserRating   *int         `json:"user_rating"`
	IsBookmarked bool         `json:"is_bookmarked"`
}

// PresentAttachment presents an attachment record
func PresentAttachment(att database.Attachment) Attachment {
	return Attachment{
		ID:        att.ID,
		Filename:  att.Filename,
		Size:      att.Size,
		CreatedAt: FormatTS(att.CreatedAt),
	}
}

// PresentNote presents a note record together with its social metadata
func PresentNote(note database.Note, meta app.NoteMeta) Note {
	attachments := []Attachment{}
	for _, att := range note.Attachments {
		attachments = append(attachments, PresentAttachment(att))
	}

	return Note{
		ID:        note.ID,
		Slug:      note.Slug,
		Title:     note.Title,
		Body:      note.Body,
		Category:  note.Category,
		CreatedAt: FormatTS(note.CreatedAt),
		UpdatedAt: FormatTS(note.UpdatedAt),
		User: NoteUser{
			Name:  note.User.Name,
			Email: note.User.Email,
		},
		Attachments:  attachments,
		AvgRating:    meta.AvgRating,
		RatingsCount: meta.RatingsCount,
		UserRating:   meta.ViewerRating,
		IsBookmarked: meta.Bookmarked,
	}
}
