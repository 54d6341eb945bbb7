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
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/noteshare/noteshare/pkg/server/app"
	"github.com/noteshare/noteshare/pkg/server/log"
	"github.com/pkg/errors"
)

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

var validate = validator.New()

// parseJSONPayload decodes the request body into the given payload and
// validates it
func parseJSONPayload(r *http.Request, payload interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return errors.Wrap(err, "decoding json")
	}
	if err := validate.Struct(payload); err != nil {
		return errors.Wrap(err, "validating payload")
	}

	return nil
}

// respondJSON writes the given payload as a json response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

type errorResp struct {
	Message string `json:"message"`
}

// respondError writes an error response with the given status and message
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, errorResp{Message: message})
}

// handleError responds according to the kind of the given error. Malformed
// input and permission and lookup failures carry their message to the client;
// anything else is logged and hidden behind a 500.
func handleError(w http.ResponseWriter, message string, err error) {
	cause := errors.Cause(err)

	switch {
	case app.IsValidationError(cause):
		respondError(w, http.StatusBadRequest, cause.Error())
	case app.IsPermissionError(cause):
		respondError(w, http.StatusForbidden, cause.Error())
	case app.IsNotFound(cause):
		respondError(w, http.StatusNotFound, cause.Error())
	case errors.Is(cause, app.ErrLoginInvalid) || errors.Is(cause, app.ErrUserInactive):
		respondError(w, http.StatusUnauthorized, cause.Error())
	default:
		log.ErrorWrap(err, message)
		respondError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
