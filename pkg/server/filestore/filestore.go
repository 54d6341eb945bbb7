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

// Package filestore stores attachment blobs. The core never interprets the
// contents; it only moves bytes under keys namespaced by note slug.
package filestore

import (
	"io"

	"github.com/pkg/errors"
)

// ErrNotFound is an error for a missing blob
var ErrNotFound = errors.New("file not found")

// Store is an interface for a blob store
type Store interface {
	// Put writes the blob under the given key and returns the number of
	// bytes written. Writing to an existing key overwrites it.
	Put(key string, r io.Reader) (int64, error)
	// Open returns a reader for the blob under the given key. It returns
	// ErrNotFound if the blob does not exist.
	Open(key string) (io.ReadCloser, error)
	// Delete removes the blob under the given key. It returns ErrNotFound
	// if the blob does not exist.
	Delete(key string) error
}
