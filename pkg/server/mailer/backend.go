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

// Package mailer sends transactional emails
package mailer

import (
	"os"
	"strconv"

	"github.com/noteshare/noteshare/pkg/server/log"
	"github.com/pkg/errors"
	gomail "gopkg.in/gomail.v2"
)

// Backend is an interface for sending emails.
type Backend interface {
	Queue(subject, from string, to []string, contentType, body string) error
}

// SimpleBackendImplementation is an implementation of the Backend
// that sends an email without queueing.
type SimpleBackendImplementation struct {
}

type emailConfig struct {
	host     string
	port     int
	username string
	password string
}

func getSMTPParams() (*emailConfig, error) {
	portEnv := os.Getenv("SmtpPort")
	hostEnv := os.Getenv("SmtpHost")
	usernameEnv := os.Getenv("SmtpUsername")
	passwordEnv := os.Getenv("SmtpPassword")

	if portEnv == "" {
		return nil, errors.New("SMTP port is empty")
	}
	if hostEnv == "" {
		return nil, errors.New("SMTP host is empty")
	}
	if usernameEnv == "" {
		return nil, errors.New("SMTP username is empty")
	}
	if passwordEnv == "" {
		return nil, errors.New("SMTP password is empty")
	}

	port, err := strconv.Atoi(portEnv)
	if err != nil {
		return nil, errors.Wrap(err, "parsing SMTP port")
	}

	return &emailConfig{
		host:     hostEnv,
		port:     port,
		username: usernameEnv,
		password: passwordEnv,
	}, nil
}

// Queue is an implementation of Backend.Queue.
func (b *SimpleBackendImplementation) Queue(subject, from string, to []string, contentType, body string) error {
	// In development, just print the content
	if os.Getenv("GO_ENV") != "PRODUCTION" {
		log.WithFields(log.Fields{
			"subject": subject,
			"to":      to,
			"body":    body,
		}).Info("email (not sent outside PRODUCTION)")
		return nil
	}

	config, err := getSMTPParams()
	if err != nil {
		return errors.Wrap(err, "getting smtp params")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody(contentType, body)

	d := gomail.NewDialer(config.host, config.port, config.username, config.password)
	if err := d.DialAndSend(m); err != nil {
		return errors.Wrap(err, "dialing and sending email")
	}

	return nil
}

// TestBackend is a mock email backend that records sent emails in memory
type TestBackend struct {
	MailDeliveries []MailDelivery
}

// MailDelivery is the information about an email sent through a TestBackend
type MailDelivery struct {
	Subject     string
	From        string
	To          []string
	ContentType string
	Body        string
}

// Queue is an implementation of Backend.Queue.
func (b *TestBackend) Queue(subject, from string, to []string, contentType, body string) error {
	b.MailDeliveries = append(b.MailDeliveries, MailDelivery{
		Subject:     subject,
		From:        from,
		To:          to,
		ContentType: contentType,
		Body:        body,
	})

	return nil
}

// Clear clears the recorded deliveries
func (b *TestBackend) Clear() {
	b.MailDeliveries = []MailDelivery{}
}
