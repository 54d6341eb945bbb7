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

package filestore

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Local is a Store backed by a directory on the local filesystem
type Local struct {
	Root string
}

// NewLocal returns a local file store rooted at the given directory
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating file store root at %s", root)
	}

	return &Local{Root: root}, nil
}

// path resolves a key to a path under the root. Keys use forward slashes
// regardless of platform.
func (s *Local) path(key string) string {
	return filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(key, "/")))
}

// Put is an implementation of Store.Put
func (s *Local) Put(key string, r io.Reader) (int64, error) {
	p := s.path(key)

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return 0, errors.Wrapf(err, "creating directory for %s", key)
	}

	f, err := os.Create(p)
	if err != nil {
		return 0, errors.Wrapf(err, "creating file for %s", key)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return n, errors.Wrapf(err, "writing file for %s", key)
	}

	return n, nil
}

// Open is an implementation of Store.Open
func (s *Local) Open(key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening file for %s", key)
	}

	return f, nil
}

// Delete is an implementation of Store.Delete
func (s *Local) Delete(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "removing file for %s", key)
	}

	return nil
}
