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

// Package config loads the server configuration from the environment
package config

import (
	"os"
	"path/filepath"

	"github.com/noteshare/noteshare/pkg/dirs"
	"github.com/pkg/errors"
)

// File store kinds
const (
	FileStoreLocal = "local"
	FileStoreS3    = "s3"
)

// S3Config is the configuration for an S3-compatible file store
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Config is the server configuration
type Config struct {
	Port                string
	WebURL              string
	DBPath              string
	UploadDir           string
	FileStore           string
	S3                  S3Config
	DisableRegistration bool
	LogLevel            string
}

func readEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

// Load reads the configuration from the environment
func Load() (Config, error) {
	dataDir := readEnv("DataDir", filepath.Join(dirs.DataHome, "noteshare"))

	c := Config{
		Port:                readEnv("PORT", "3000"),
		WebURL:              readEnv("WebURL", "http://localhost:3000"),
		DBPath:              readEnv("DBPath", filepath.Join(dataDir, "noteshare.db")),
		UploadDir:           readEnv("UploadDir", filepath.Join(dataDir, "uploads")),
		FileStore:           readEnv("FileStore", FileStoreLocal),
		DisableRegistration: os.Getenv("DisableRegistration") == "true",
		LogLevel:            readEnv("LogLevel", "info"),
		S3: S3Config{
			Region:    os.Getenv("S3Region"),
			Bucket:    os.Getenv("S3Bucket"),
			Endpoint:  os.Getenv("S3Endpoint"),
			AccessKey: os.Getenv("S3AccessKey"),
			SecretKey: os.Getenv("S3SecretKey"),
		},
	}

	if c.FileStore != FileStoreLocal && c.FileStore != FileStoreS3 {
		return Config{}, errors.Errorf("unsupported file store %s", c.FileStore)
	}
	if c.FileStore == FileStoreS3 && c.S3.Bucket == "" {
		return Config{}, errors.New("S3Bucket is required for the s3 file store")
	}

	return c, nil
}
