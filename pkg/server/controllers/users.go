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

	"github.com/gorilla/mux"
	"github.com/noteshare/noteshare/pkg/server/app"
	"github.com/noteshare/noteshare/pkg/server/context"
	"github.com/noteshare/noteshare/pkg/server/middleware"
	"github.com/noteshare/noteshare/pkg/server/presenters"
)

// Users is a set of handlers for user endpoints
type Users struct {
	app   *app.App
	authn *middleware.Authenticator
}

// NewUsers creates a Users controller
func NewUsers(a *app.App, authn *middleware.Authenticator) *Users {
	return &Users{app: a, authn: authn}
}

type registerPayload struct {
	Email                string `json:"email" validate:"required,email"`
	Name                 string `json:"name" validate:"required"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

type sessionResp struct {
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

// Register creates an account and signs it in
func (c *Users) Register(w http.ResponseWriter, r *http.Request) {
	if c.app.DisableRegistration {
		respondError(w, http.StatusForbidden, "registration is disabled")
		return
	}

	var payload registerPayload
	if err := parseJSONPayload(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	user, err := c.app.CreateUser(payload.Email, payload.Name, payload.Password, payload.PasswordConfirmation)
	if err != nil {
		handleError(w, "creating user", err)
		return
	}

	session, err := c.app.SignIn(&user)
	if err != nil {
		handleError(w, "signing in", err)
		return
	}

	respondJSON(w, http.StatusCreated, sessionResp{
		Key:       session.Key,
		ExpiresAt: session.ExpiresAt.Unix(),
	})
}

type signinPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignIn authenticates with email and password and returns a session
func (c *Users) SignIn(w http.ResponseWriter, r *http.Request) {
	var payload signinPayload
	if err := parseJSONPayload(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	user, err := c.app.Authenticate(payload.Email, payload.Password)
	if err != nil {
		// An unknown email reads the same as a wrong password
		if app.IsNotFound(err) {
			respondError(w, http.StatusUnauthorized, app.ErrLoginInvalid.Error())
			return
		}

		handleError(w, "authenticating", err)
		return
	}

	session, err := c.app.SignIn(user)
	if err != nil {
		handleError(w, "signing in", err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResp{
		Key:       session.Key,
		ExpiresAt: session.ExpiresAt.Unix(),
	})
}

// SignOut deletes the caller's session
func (c *Users) SignOut(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("Authorization")
	if len(key) > 7 {
		key = key[7:] // strip "Bearer "
	}

	if err := c.app.DeleteSession(key); err != nil {
		handleError(w, "deleting session", err)
		return
	}
	c.authn.Invalidate(key)

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the caller's own profile
func (c *Users) Me(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	respondJSON(w, http.StatusOK, presenters.PresentUser(*user, c.app.UserOnline(*user)))
}

type updateProfilePayload struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Bio   *string `json:"bio"`
}

// UpdateMe updates the caller's own profile
func (c *Users) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var payload updateProfilePayload
	if err := parseJSONPayload(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	updated, err := c.app.UpdateProfile(*user, app.UpdateProfileParams{
		Name:  payload.Name,
		Email: payload.Email,
		Bio:   payload.Bio,
	})
	if err != nil {
		handleError(w, "updating profile", err)
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUser(updated, c.app.UserOnline(updated)))
}

type updatePasswordPayload struct {
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// UpdatePassword sets a new password for the caller
func (c *Users) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var payload updatePasswordPayload
	if err := parseJSONPayload(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := c.app.UpdatePassword(*user, payload.Password, payload.PasswordConfirmation); err != nil {
		handleError(w, "updating password", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type heartbeatResp struct {
	LastSeenAt int64 `json:"last_seen_at"`
}

// Heartbeat records that the caller is online
func (c *Users) Heartbeat(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	seen, err := c.app.TouchLastSeen(*user)
	if err != nil {
		handleError(w, "touching last seen", err)
		return
	}

	respondJSON(w, http.StatusOK, heartbeatResp{LastSeenAt: seen.Unix()})
}

// Show returns the public profile of a user by email or display name
func (c *Users) Show(w http.ResponseWriter, r *http.Request) {
	user, err := c.app.GetUserByEmailOrName(mux.Vars(r)["name"])
	if err != nil {
		handleError(w, "finding user", err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUser(*user, c.app.UserOnline(*user)))
}

type resetTokenPayload struct {
	Email string `json:"email" validate:"required"`
}

// CreateResetToken emails a password reset link to the given address
func (c *Users) CreateResetToken(w http.ResponseWriter, r *http.Request) {
	var payload resetTokenPayload
	if err := parseJSONPayload(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := c.app.SendPasswordResetEmail(payload.Email); err != nil {
		handleError(w, "sending reset email", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type resetPasswordPayload struct {
	Token                string `json:"token" validate:"required"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// ResetPassword sets a new password using a reset token
func (c *Users) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordPayload
	if err := parseJSONPayload(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := c.app.ResetPassword(payload.Token, payload.Password, payload.PasswordConfirmation); err != nil {
		handleError(w, "resetting password", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
