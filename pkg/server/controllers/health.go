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

	"github.com/noteshare/noteshare/pkg/server/buildinfo"
)

type healthResp struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health reports whether the server is up
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResp{
		Status:  "ok",
		Version: buildinfo.Version,
	})
}
