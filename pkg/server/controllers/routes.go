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

// Package controllers binds the http routes to the application
package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/noteshare/noteshare/pkg/server/app"
	"github.com/noteshare/noteshare/pkg/server/metrics"
	"github.com/noteshare/noteshare/pkg/server/middleware"
	"github.com/pkg/errors"
)

// route is a configuration of a single route
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
	// requireAuth rejects anonymous requests. Routes without it still resolve
	// the session when one is presented.
	requireAuth bool
}

// NewRouter builds the http handler serving the API
func NewRouter(a *app.App, authn *middleware.Authenticator) (http.Handler, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating app")
	}

	notes := NewNotes(a)
	users := NewUsers(a, authn)
	admin := NewAdmin(a)

	routes := []route{
		{method: "GET", pattern: "/health", handler: Health},

		{method: "POST", pattern: "/v1/register", handler: users.Register},
		{method: "POST", pattern: "/v1/signin", handler: users.SignIn},
		{method: "POST", pattern: "/v1/signout", handler: users.SignOut, requireAuth: true},
		{method: "POST", pattern: "/v1/reset-token", handler: users.CreateResetToken},
		{method: "PATCH", pattern: "/v1/reset-password", handler: users.ResetPassword},

		{method: "GET", pattern: "/v1/me", handler: users.Me, requireAuth: true},
		{method: "PATCH", pattern: "/v1/me", handler: users.UpdateMe, requireAuth: true},
		{method: "PATCH", pattern: "/v1/me/password", handler: users.UpdatePassword, requireAuth: true},
		{method: "POST", pattern: "/v1/heartbeat", handler: users.Heartbeat, requireAuth: true},
		{method: "GET", pattern: "/v1/users/{name}", handler: users.Show},
		{method: "GET", pattern: "/v1/users/{name}/notes", handler: notes.IndexByUser},

		{method: "GET", pattern: "/v1/notes", handler: notes.Index},
		{method: "POST", pattern: "/v1/notes", handler: notes.Create, requireAuth: true},
		{method: "GET", pattern: "/v1/search", handler: notes.Search, requireAuth: true},
		{method: "GET", pattern: "/v1/notes/{slug}", handler: notes.Show},
		{method: "PATCH", pattern: "/v1/notes/{slug}", handler: notes.Update, requireAuth: true},
		{method: "DELETE", pattern: "/v1/notes/{slug}", handler: notes.Delete, requireAuth: true},
		{method: "GET", pattern: "/v1/notes/{slug}/attachments/{attachmentID}", handler: notes.DownloadAttachment},
		{method: "DELETE", pattern: "/v1/notes/{slug}/attachments/{attachmentID}", handler: notes.RemoveAttachment, requireAuth: true},
		{method: "POST", pattern: "/v1/notes/{slug}/rating", handler: notes.Rate, requireAuth: true},
		{method: "DELETE", pattern: "/v1/notes/{slug}/rating", handler: notes.DeleteRating, requireAuth: true},
		{method: "POST", pattern: "/v1/notes/{slug}/bookmark", handler: notes.Bookmark, requireAuth: true},
		{method: "DELETE", pattern: "/v1/notes/{slug}/bookmark", handler: notes.RemoveBookmark, requireAuth: true},

		{method: "GET", pattern: "/v1/admin/users", handler: admin.ListUsers, requireAuth: true},
		{method: "PATCH", pattern: "/v1/admin/users/{userID}", handler: admin.UpdateUser, requireAuth: true},
		{method: "DELETE", pattern: "/v1/admin/users/{userID}", handler: admin.DeleteUser, requireAuth: true},
	}

	router := mux.NewRouter().StrictSlash(true)
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	for _, r := range routes {
		var handler http.HandlerFunc
		if r.requireAuth {
			handler = middleware.RequireUser(authn, r.handler)
		} else {
			handler = middleware.WithUser(authn, r.handler)
		}

		router.Handle(r.pattern, metrics.Instrument(r.pattern, handler)).Methods(r.method)
	}

	return middleware.Global(router), nil
}
