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
	"github.com/noteshare/noteshare/pkg/clock"
	"github.com/noteshare/noteshare/pkg/server/filestore"
	"github.com/noteshare/noteshare/pkg/server/mailer"
	"gorm.io/gorm"
)

// NewTest returns an app configured for a test. Fields can be overridden for
// mocking.
func NewTest(db *gorm.DB) App {
	return App{
		DB:           db,
		Clock:        clock.NewMock(),
		Files:        filestore.NewMemory(),
		EmailBackend: &mailer.TestBackend{},
		WebURL:       "http://mock.url",
	}
}
