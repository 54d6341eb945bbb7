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
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Slugify derives a url-safe identifier from the given title. Letters and
// digits are lowercased and any other run of characters collapses into a
// single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}

	slug := b.String()
	if slug == "" {
		slug = "note"
	}

	return slug
}

// nextSlug returns a slug candidate for the given title that is not taken at
// the time of the query. The candidate is the base slug when it is free, and
// otherwise the base suffixed with the highest existing numeric suffix plus
// one, so deleted notes leaving holes in the sequence never make the
// candidate collide.
func nextSlug(tx *gorm.DB, title string) (string, error) {
	base := Slugify(title)

	var taken int64
	if err := tx.Model(&database.Note{}).
		Where("slug = ?", base).
		Count(&taken).Error; err != nil {
		return "", errors.Wrap(err, "checking slug")
	}
	if taken == 0 {
		return base, nil
	}

	var slugs []string
	if err := tx.Model(&database.Note{}).
		Where("slug LIKE ?", base+"-%").
		Pluck("slug", &slugs).Error; err != nil {
		return "", errors.Wrap(err, "finding colliding slugs")
	}

	// Slugs like base-foo belong to other titles and are skipped
	highest := 0
	for _, slug := range slugs {
		n, err := strconv.Atoi(strings.TrimPrefix(slug, base+"-"))
		if err != nil || n <= highest {
			continue
		}
		highest = n
	}

	return fmt.Sprintf("%s-%d", base, highest+1), nil
}
