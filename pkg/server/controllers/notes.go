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

package controllers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/noteshare/noteshare/pkg/server/app"
	"github.com/noteshare/noteshare/pkg/server/context"
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/log"
	"github.com/noteshare/noteshare/pkg/server/metrics"
	"github.com/noteshare/noteshare/pkg/server/presenters"
	"github.com/pkg/errors"
)

// maxUploadSize bounds the memory used for parsing multipart uploads
const maxUploadSize = 32 << 20

// Notes is a set of handlers for note endpoints
type Notes struct {
	app *app.App
}

// NewNotes creates a Notes controller
func NewNotes(a *app.App) *Notes {
	return &Notes{app: a}
}

func (c *Notes) findNoteBySlug(w http.ResponseWriter, r *http.Request) (database.Note, bool) {
	slug := mux.Vars(r)["slug"]

	note, found, err := c.app.GetNoteBySlug(slug)
	if err != nil {
		handleError(w, "finding note", err)
		return note, false
	}
	if !found {
		respondError(w, http.StatusNotFound, "note not found")
		return note, false
	}

	return note, true
}

func (c *Notes) present(note database.Note, viewer *database.User) (presenters.Note, error) {
	meta, err := c.app.GetNoteMeta(note, viewer)
	if err != nil {
		return presenters.Note{}, errors.Wrap(err, "getting note meta")
	}

	return presenters.PresentNote(note, meta), nil
}

func (c *Notes) presentAll(notes []database.Note, viewer *database.User) ([]presenters.Note, error) {
	presented := []presenters.Note{}
	for _, note := range notes {
		p, err := c.present(note, viewer)
		if err != nil {
			return nil, err
		}
		presented = append(presented, p)
	}

	return presented, nil
}

type indexQuery struct {
	Owner        int    `schema:"owner"`
	BookmarkedBy int    `schema:"bookmarked_by"`
	Q            string `schema:"q"`
}

// Index lists notes. Reads are public.
func (c *Notes) Index(w http.ResponseWriter, r *http.Request) {
	var q indexQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		respondError(w, http.StatusBadRequest, "invalid query")
		return
	}

	notes, err := c.app.GetNotes(app.GetNotesParams{
		OwnerID:      q.Owner,
		BookmarkedBy: q.BookmarkedBy,
		Search:       q.Q,
	})
	if err != nil {
		handleError(w, "getting notes", err)
		return
	}

	presented, err := c.presentAll(notes, context.User(r.Context()))
	if err != nil {
		handleError(w, "presenting notes", err)
		return
	}

	respondJSON(w, http.StatusOK, presented)
}

// IndexByUser lists the notes owned by the user with the given name. Reads
// are public.
func (c *Notes) IndexByUser(w http.ResponseWriter, r *http.Request) {
	owner, err := c.app.GetUserByEmailOrName(mux.Vars(r)["name"])
	if err != nil {
		handleError(w, "finding user", err)
		return
	}
	if owner == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	notes, err := c.app.GetNotes(app.GetNotesParams{OwnerID: owner.ID})
	if err != nil {
		handleError(w, "getting notes", err)
		return
	}

	presented, err := c.presentAll(notes, context.User(r.Context()))
	if err != nil {
		handleError(w, "presenting notes", err)
		return
	}

	respondJSON(w, http.StatusOK, presented)
}

// Show returns a single note by slug. Reads are public.
func (c *Notes) Show(w http.ResponseWriter, r *http.Request) {
	note, ok := c.findNoteBySlug(w, r)
	if !ok {
		return
	}

	p, err := c.present(note, context.User(r.Context()))
	if err != nil {
		handleError(w, "presenting note", err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

type createNotePayload struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

func uploadsFromMultipart(form *multipart.Form) ([]app.AttachmentUpload, []io.Closer, error) {
	var uploads []app.AttachmentUpload
	var closers []io.Closer

	for _, fh := range form.File["attachments"] {
		f, err := fh.Open()
		if err != nil {
			return nil, closers, errors.Wrapf(err, "opening upload %s", fh.Filename)
		}

		closers = append(closers, f)
		uploads = append(uploads, app.AttachmentUpload{
			Filename: fh.Filename,
			Content:  f,
		})
	}

	return uploads, closers, nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.ErrorWrap(err, "closing upload")
		}
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// Create creates a note. It accepts a json body, or a multipart form when
// attachments are uploaded alongside.
func (c *Notes) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var params app.CreateNoteParams

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			respondError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		uploads, closers, err := uploadsFromMultipart(r.MultipartForm)
		defer closeAll(closers)
		if err != nil {
			handleError(w, "reading uploads", err)
			return
		}

		params = app.CreateNoteParams{
			Title:       r.FormValue("title"),
			Body:        r.FormValue("body"),
			Category:    r.FormValue("category"),
			Attachments: uploads,
		}
	} else {
		var payload createNotePayload
		if err := parseJSONPayload(r, &payload); err != nil {
			respondError(w, http.StatusBadRequest, "invalid payload")
			return
		}

		params = app.CreateNoteParams{
			Title:    payload.Title,
			Body:     payload.Body,
			Category: payload.Category,
		}
	}

	note, err := c.app.CreateNote(*user, params)
	if err != nil {
		handleError(w, "creating note", err)
		return
	}

	metrics.NotesCreated.Inc()

	p, err := c.present(note, user)
	if err != nil {
		handleError(w, "presenting note", err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

type updateNotePayload struct {
	Title             *string `json:"title"`
	Body              *string `json:"body"`
	Category          *string `json:"category"`
	KeepAttachmentIDs *[]int  `json:"keep_attachment_ids"`
}

func stringPtrIfSet(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}

	return &values[0]
}

func keepIDsFromMultipart(form *multipart.Form) (*[]int, error) {
	values, ok := form.Value["keep_attachment_ids"]
	if !ok {
		return nil, nil
	}

	// The field being present with no usable values means "keep none"
	ids := []int{}
	for _, value := range values {
		if value == "" {
			continue
		}
		id, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing attachment id %s", value)
		}
		ids = append(ids, id)
	}

	return &ids, nil
}

// Update updates a note. Like Create it accepts json or a multipart form.
// Existing attachments not listed in keep_attachment_ids are deleted when the
// field is present; the field being absent keeps them all.
func (c *Notes) Update(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	note, ok := c.findNoteBySlug(w, r)
	if !ok {
		return
	}

	var params app.UpdateNoteParams

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			respondError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		uploads, closers, err := uploadsFromMultipart(r.MultipartForm)
		defer closeAll(closers)
		if err != nil {
			handleError(w, "reading uploads", err)
			return
		}

		keepIDs, err := keepIDsFromMultipart(r.MultipartForm)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid keep_attachment_ids")
			return
		}

		params = app.UpdateNoteParams{
			Title:             stringPtrIfSet(r.MultipartForm, "title"),
			Body:              stringPtrIfSet(r.MultipartForm, "body"),
			Category:          stringPtrIfSet(r.MultipartForm, "category"),
			KeepAttachmentIDs: keepIDs,
			NewAttachments:    uploads,
		}
	} else {
		var payload updateNotePayload
		if err := parseJSONPayload(r, &payload); err != nil {
			respondError(w, http.StatusBadRequest, "invalid payload")
			return
		}

		params = app.UpdateNoteParams{
			Title:             payload.Title,
			Body:              payload.Body,
			Category:          payload.Category,
			KeepAttachmentIDs: payload.KeepAttachmentIDs,
		}
	}

	updated, err := c.app.UpdateNote(*user, note, params)
	if err != nil {
		handleError(w, "updating note", err)
		return
	}

	p, err := c.present(updated, user)
	if err != nil {
		handleError(w, "presenting note", err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// Delete removes a note
func (c *Notes) Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	note, ok := c.findNoteBySlug(w, r)
	if !ok {
		return
	}

	if err := c.app.DeleteNote(*user, note); err != nil {
		handleError(w, "deleting note", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DownloadAttachment streams the blob of an attachment. Reads are public.
func (c *Notes) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	note, ok := c.findNoteBySlug(w, r)
	if !ok {
		return
	}

	attachmentID, err := strconv.Atoi(mux.Vars(r)["attachmentID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid attachment id")
		return
	}

	att, found, err := c.app.GetAttachment(note, attachmentID)
	if err != nil {
		handleError(w, "finding attachment", err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "attachment not found")
		return
	}

	blob, err := c.app.OpenAttachment(att)
	if err != nil {
		handleError(w, "opening attachment", err)
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(att.Filename))
	if _, err := io.Copy(w, blob); err != nil {
		log.ErrorWrap(err, "streaming attachment")
	}
}

// RemoveAttachment deletes a single attachment from a note
func (c *Notes) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	note, ok := c.findNoteBySlug(w, r)
	if !ok {
		return
	}

	attachmentID, err := strconv.Atoi(mux.Vars(r)["attachmentID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid attachment id")
		return
	}

	att, found, err := c.app.GetAttachment(note, attachmentID)
	if err != nil {
		handleError(w, "finding attachment", err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "attachment not found")
		return
	}

	if err := c.app.RemoveAttachment(*user, note, att); err != nil {
		handleError(w, "removing attachment", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type ratePayload struct {
	Value int `json:"value"`
}

// Rate records the caller's rating of a note, replacing any previous one
func (c *Notes) Rate(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	note, ok := c.findNoteBySlug(w, r)
	if !ok {
		return
	}

	var payload ratePayload
	if err := parseJSONPayload(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := c.app.RateNote(*user, note, payload.Value); err != nil {
		handleError(w, "rating note", err)
		return
	}

	metrics.RatingsRecorded.Inc()

	meta, err := c.app.GetNoteMeta(note, user)
	if err != nil {
		handleError(w, "getting note meta", err)
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentNote(note, meta))
}

// DeleteRating removes the caller's rating of a note
func (c *Notes) DeleteRating(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	note, ok := c.findNoteBySlug(w, r)
	if !ok {
		return
	}

	if err := c.app.DeleteRating(*user, note); err != nil {
		handleError(w, "deleting rating", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Bookmark bookmarks a note for the caller
func (c *Notes) Bookmark(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	note, ok := c.findNoteBySlug(w, r)
	if !ok {
		return
	}

	if err := c.app.AddBookmark(*user, note); err != nil {
		handleError(w, "adding bookmark", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveBookmark removes the caller's bookmark of a note
func (c *Notes) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	note, ok := c.findNoteBySlug(w, r)
	if !ok {
		return
	}

	if err := c.app.RemoveBookmark(*user, note); err != nil {
		handleError(w, "removing bookmark", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search runs a quick search over the caller's own notes
func (c *Notes) Search(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	results, err := c.app.SearchNotes(*user, r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, "searching notes", err)
		return
	}

	respondJSON(w, http.StatusOK, results)
}
