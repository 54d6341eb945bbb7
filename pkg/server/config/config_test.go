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

package config

import (
	"testing"

	"github.com/noteshare/noteshare/pkg/assert"
	"github.com/pkg/errors"
)

func TestLoad_defaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(errors.Wrap(err, "loading config"))
	}

	assert.Equal(t, c.Port, "3000", "port mismatch")
	assert.Equal(t, c.WebURL, "http://localhost:3000", "web url mismatch")
	assert.Equal(t, c.FileStore, FileStoreLocal, "file store mismatch")
	assert.Equal(t, c.DisableRegistration, false, "registration flag mismatch")
	assert.Equal(t, c.LogLevel, "info", "log level mismatch")
}

func TestLoad_env(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("WebURL", "https://notes.example.com")
	t.Setenv("DisableRegistration", "true")
	t.Setenv("FileStore", "s3")
	t.Setenv("S3Bucket", "noteshare-uploads")
	t.Setenv("S3Region", "us-east-1")

	c, err := Load()
	if err != nil {
		t.Fatal(errors.Wrap(err, "loading config"))
	}

	assert.Equal(t, c.Port, "8080", "port mismatch")
	assert.Equal(t, c.WebURL, "https://notes.example.com", "web url mismatch")
	assert.Equal(t, c.DisableRegistration, true, "registration flag mismatch")
	assert.Equal(t, c.FileStore, FileStoreS3, "file store mismatch")
	assert.Equal(t, c.S3.Bucket, "noteshare-uploads", "bucket mismatch")
}

func TestLoad_invalid(t *testing.T) {
	t.Run("unknown file store", func(t *testing.T) {
		t.Setenv("FileStore", "ftp")

		if _, err := Load(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		t.Setenv("FileStore", "s3")
		t.Setenv("S3Bucket", "")

		if _, err := Load(); err == nil {
			t.Error("expected an error")
		}
	})
}
