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

// Package middleware provides the http middleware of the server
package middleware

import (
	"net/http"

	"github.com/noteshare/noteshare/pkg/server/log"
)

// RespondUnauthorized responds with 401
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="noteshare"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// DoError logs the error and responds with the given status without leaking
// internals to the client
func DoError(w http.ResponseWriter, message string, err error, statusCode int) {
	log.WithFields(log.Fields{
		"statusCode": statusCode,
	}).ErrorWrap(err, message)

	http.Error(w, http.StatusText(statusCode), statusCode)
}
