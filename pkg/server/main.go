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

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/noteshare/noteshare/pkg/clock"
	"github.com/noteshare/noteshare/pkg/server/app"
	"github.com/noteshare/noteshare/pkg/server/buildinfo"
	"github.com/noteshare/noteshare/pkg/server/config"
	"github.com/noteshare/noteshare/pkg/server/controllers"
	"github.com/noteshare/noteshare/pkg/server/database"
	"github.com/noteshare/noteshare/pkg/server/filestore"
	"github.com/noteshare/noteshare/pkg/server/job"
	"github.com/noteshare/noteshare/pkg/server/log"
	"github.com/noteshare/noteshare/pkg/server/mailer"
	"github.com/noteshare/noteshare/pkg/server/middleware"
	"github.com/pkg/errors"
)

func main() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(errors.Cause(err)) {
		log.ErrorWrap(err, "loading env file")
	}

	command := "start"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "start":
		startCmd()
	case "version":
		versionCmd()
	case "promote":
		promoteCmd(os.Args[2:])
	default:
		fmt.Printf(`noteshare server - a notes backend with social metadata

Usage:
  server [command]

Available commands:
  start     start the server (default)
  promote   grant the admin role to a user by email
  version   print the version
`)
		os.Exit(1)
	}
}

func newFileStore(c config.Config) (filestore.Store, error) {
	switch c.FileStore {
	case config.FileStoreS3:
		return filestore.NewS3(filestore.S3Params{
			Region:    c.S3.Region,
			Bucket:    c.S3.Bucket,
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
		})
	default:
		return filestore.NewLocal(c.UploadDir)
	}
}

func initApp(c config.Config) app.App {
	db := database.Open(c.DBPath)
	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		panic(errors.Wrap(err, "running migrations"))
	}

	files, err := newFileStore(c)
	if err != nil {
		panic(errors.Wrap(err, "initializing file store"))
	}

	return app.App{
		DB:                  db,
		Clock:               clock.New(),
		Files:               files,
		EmailBackend:        &mailer.SimpleBackendImplementation{},
		WebURL:              c.WebURL,
		DisableRegistration: c.DisableRegistration,
	}
}

func startCmd() {
	c, err := config.Load()
	if err != nil {
		panic(errors.Wrap(err, "loading config"))
	}
	log.SetLevel(c.LogLevel)

	a := initApp(c)

	database.StartWALCheckpointing(a.DB, time.Hour)
	database.StartPeriodicVacuum(a.DB, 24*time.Hour)

	runner := job.NewRunner(a.DB, a.Clock)
	if err := runner.Do(); err != nil {
		panic(errors.Wrap(err, "starting background jobs"))
	}

	authn, err := middleware.NewAuthenticator(a.DB, a.Clock)
	if err != nil {
		panic(errors.Wrap(err, "initializing authenticator"))
	}

	handler, err := controllers.NewRouter(&a, authn)
	if err != nil {
		panic(errors.Wrap(err, "initializing router"))
	}

	srv := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.WithFields(log.Fields{
		"port":    c.Port,
		"version": buildinfo.Version,
	}).Info("noteshare server starting")

	if err := srv.ListenAndServe(); err != nil {
		panic(errors.Wrap(err, "server shut down"))
	}
}

func versionCmd() {
	fmt.Printf("noteshare server %s\n", buildinfo.Version)
}

func promoteCmd(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: server promote <email>")
		os.Exit(1)
	}

	c, err := config.Load()
	if err != nil {
		panic(errors.Wrap(err, "loading config"))
	}

	db := database.Open(c.DBPath)
	result := db.Model(&database.User{}).Where("email = ?", args[0]).Update("admin", true)
	if result.Error != nil {
		panic(errors.Wrap(result.Error, "promoting user"))
	}
	if result.RowsAffected == 0 {
		fmt.Printf("no user with email %s\n", args[0])
		os.Exit(1)
	}

	fmt.Printf("%s is now an admin\n", args[0])
}
