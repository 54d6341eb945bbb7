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

// Package token creates single-use tokens
package token

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// valueLen is how many random bytes make up a token value
const valueLen = 16

func randomValue() (string, error) {
	b := make([]byte, valueLen)

	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// Create generates a token of the given kind for the user and records it
func Create(db *gorm.DB, userID int, kind database.TokenType) (database.Token, error) {
	val, err := randomValue()
	if err != nil {
		return database.Token{}, errors.Wrap(err, "generating value")
	}

	token := database.Token{
		UserID: userID,
		Value:  val,
		Type:   kind,
	}
	if err := db.Create(&token).Error; err != nil {
		return database.Token{}, errors.Wrap(err, "creating token")
	}

	return token, nil
}
