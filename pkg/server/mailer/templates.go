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
	"bytes"
	"text/template"

	"github.com/pkg/errors"
)

// EmailTypeResetPassword is the type of a password reset email
const EmailTypeResetPassword = "reset_password"

var templates = map[string]*template.Template{
	EmailTypeResetPassword: template.Must(template.New(EmailTypeResetPassword).Parse(`Hello,

Someone requested a password reset for your account. Follow the link below
to choose a new password. The link expires in 10 minutes.

  {{.WebURL}}/password-reset/{{.Token}}

If you did not request a reset, you can safely ignore this email.
`)),
}

// EmailTypeResetPasswordTmplData is the template data for a password reset email
type EmailTypeResetPasswordTmplData struct {
	Token  string
	WebURL string
}

// GetBody executes the template for the given email type with the given data
func GetBody(emailType string, data interface{}) (string, error) {
	t, ok := templates[emailType]
	if !ok {
		return "", errors.Errorf("unsupported email type %s", emailType)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "executing template")
	}

	return buf.String(), nil
}
