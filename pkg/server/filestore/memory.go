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
	"bytes"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Memory is an in-memory Store for tests
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemory returns an empty in-memory file store
func NewMemory() *Memory {
	return &Memory{blobs: map[string][]byte{}}
}

// Put is an implementation of Store.Put
func (m *Memory) Put(key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, errors.Wrapf(err, "reading blob for %s", key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data

	return int64(len(data)), nil
}

// Open is an implementation of Store.Open
func (m *Memory) Open(key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete is an implementation of Store.Delete
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, key)

	return nil
}

// Len returns the number of stored blobs
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.blobs)
}
