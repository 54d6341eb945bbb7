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
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/noteshare/noteshare/pkg/server/app"
	"github.com/noteshare/noteshare/pkg/server/context"
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/presenters"
)

// Admin is a set of handlers for account administration endpoints
type Admin struct {
	app *app.App
}

// NewAdmin creates an Admin controller
func NewAdmin(a *app.App) *Admin {
	return &Admin{app: a}
}

func (c *Admin) findTargetUser(w http.ResponseWriter, r *http.Request) (database.User, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["userID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return database.User{}, false
	}

	user, err := c.app.GetUserByID(id)
	if err != nil {
		handleError(w, "finding user", err)
		return database.User{}, false
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return database.User{}, false
	}

	return *user, true
}

// ListUsers lists accounts. Accounts that never logged in are hidden unless
// the all flag is set.
func (c *Admin) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor := context.User(r.Context())
	showAll := r.URL.Query().Get("all") == "true"

	records, err := c.app.ListUsers(*actor, showAll)
	if err != nil {
		handleError(w, "listing users", err)
		return
	}

	presented := []presenters.AdminUser{}
	for _, record := range records {
		presented = append(presented, presenters.PresentAdminUser(record, c.app.UserOnline(record.User)))
	}

	respondJSON(w, http.StatusOK, presented)
}

type updateUserFlagsPayload struct {
	IsAdmin  *bool `json:"is_admin"`
	IsActive *bool `json:"is_active"`
}

// UpdateUser sets the admin and active flags of an account
func (c *Admin) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor := context.User(r.Context())

	target, ok := c.findTargetUser(w, r)
	if !ok {
		return
	}

	var payload updateUserFlagsPayload
	if err := parseJSONPayload(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	updated, err := c.app.UpdateUserFlags(*actor, target, app.UserFlagsParams{
		Admin:  payload.IsAdmin,
		Active: payload.IsActive,
	})
	if err != nil {
		handleError(w, "updating user flags", err)
		return
	}

	record := app.AdminUserRecord{User: updated}
	respondJSON(w, http.StatusOK, presenters.PresentAdminUser(record, c.app.UserOnline(updated)))
}

// DeleteUser removes an account and everything it owns
func (c *Admin) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := context.User(r.Context())

	target, ok := c.findTargetUser(w, r)
	if !ok {
		return
	}

	if err := c.app.DeleteUser(*actor, target); err != nil {
		handleError(w, "deleting user", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
