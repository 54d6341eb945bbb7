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

package mailer

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestGetBody_resetPassword(t *testing.T) {
	body, err := GetBody(EmailTypeResetPassword, EmailTypeResetPasswordTmplData{
		Token:  "testToken123",
		WebURL: "https://notes.example.com",
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting body"))
	}

	if !strings.Contains(body, "https://notes.example.com/password-reset/testToken123") {
		t.Errorf("body should contain the reset link, got:\n%s", body)
	}
}

func TestGetBody_unsupportedType(t *testing.T) {
	if _, err := GetBody("bogus", nil); err == nil {
		t.Error("expected an error")
	}
}
