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
	"strings"
	"testing"

	"github.com/noteshare/noteshare/pkg/assert"
	"github.com/pkg/errors"
)

func TestLocal(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating store"))
	}

	key := "notes/trip-plan/1-map.png"

	n, err := store.Put(key, strings.NewReader("pretend png"))
	if err != nil {
		t.Fatal(errors.Wrap(err, "putting blob"))
	}
	assert.Equal(t, n, int64(len("pretend png")), "size mismatch")

	r, err := store.Open(key)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening blob"))
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading blob"))
	}
	if err := r.Close(); err != nil {
		t.Fatal(errors.Wrap(err, "closing blob"))
	}
	assert.Equal(t, string(data), "pretend png", "content mismatch")

	if err := store.Delete(key); err != nil {
		t.Fatal(errors.Wrap(err, "deleting blob"))
	}

	_, err = store.Open(key)
	assert.Equal(t, errors.Cause(err), ErrNotFound, "error mismatch")
}

func TestLocal_overwrite(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating store"))
	}

	key := "notes/trip-plan/1-list.txt"

	if _, err := store.Put(key, strings.NewReader("first")); err != nil {
		t.Fatal(errors.Wrap(err, "putting blob"))
	}
	if _, err := store.Put(key, strings.NewReader("second")); err != nil {
		t.Fatal(errors.Wrap(err, "putting blob again"))
	}

	r, err := store.Open(key)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening blob"))
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading blob"))
	}
	assert.Equal(t, string(data), "second", "content mismatch")
}

func TestMemory(t *testing.T) {
	store := NewMemory()

	if _, err := store.Put("a", strings.NewReader("blob a")); err != nil {
		t.Fatal(errors.Wrap(err, "putting blob"))
	}
	assert.Equal(t, store.Len(), 1, "length mismatch")

	_, err := store.Open("missing")
	assert.Equal(t, errors.Cause(err), ErrNotFound, "error mismatch")

	if err := store.Delete("a"); err != nil {
		t.Fatal(errors.Wrap(err, "deleting blob"))
	}
	assert.Equal(t, store.Len(), 0, "length mismatch")
}
