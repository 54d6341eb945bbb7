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
	"github.com/pkg/errors"
)

// Errors for malformed input. They are reported to the caller and never
// retried.
var (
	// ErrEmailRequired is an error for registering without an email
	ErrEmailRequired = errors.New("Email is required")
	// ErrNameRequired is an error for registering without a display name
	ErrNameRequired = errors.New("Name is required")
	// ErrPasswordRequired is an error for logging in without a password
	ErrPasswordRequired = errors.New("Password is required")
	// ErrPasswordTooShort is an error for a short password
	ErrPasswordTooShort = errors.New("Password should be longer than 8 characters")
	// ErrPasswordConfirmationMismatch is an error for password and confirmation not matching
	ErrPasswordConfirmationMismatch = errors.New("Password and its confirmation do not match")
	// ErrDuplicateEmail is an error for an already registered email
	ErrDuplicateEmail = errors.New("Duplicate email")
	// ErrTitleRequired is an error for creating a note without a title
	ErrTitleRequired = errors.New("Title is required")
	// ErrBodyRequired is an error for creating a note without a body
	ErrBodyRequired = errors.New("Body is required")
	// ErrInvalidCategory is an error for an unknown note category
	ErrInvalidCategory = errors.New("Invalid category")
	// ErrRatingOutOfRange is an error for a rating value outside [1, 5]
	ErrRatingOutOfRange = errors.New("Rating must be between 1 and 5")
	// ErrEmailNotRegistered is an error for requesting a password reset for an unknown email
	ErrEmailNotRegistered = errors.New("Email is not registered")
	// ErrInvalidToken is an error for an invalid or expired single-use token
	ErrInvalidToken = errors.New("Token is invalid or expired")
)

// Errors for ownership and admin violations. The operation is aborted with no
// partial mutation.
var (
	// ErrPermissionDenied is an error for an action the actor may not perform
	ErrPermissionDenied = errors.New("Permission denied")
	// ErrSelfDemotion is an error for an admin revoking their own admin role
	ErrSelfDemotion = errors.New("You cannot revoke your own admin role")
	// ErrSelfDeactivation is an error for an admin deactivating their own account
	ErrSelfDeactivation = errors.New("You cannot deactivate your own account")
	// ErrSelfDeletion is an error for an admin deleting their own account
	ErrSelfDeletion = errors.New("You cannot delete your own account")
)

var (
	// ErrNotFound is an error for a missing resource
	ErrNotFound = errors.New("Not found")
	// ErrLoginInvalid is an error for invalid credentials
	ErrLoginInvalid = errors.New("Wrong email and password combination")
	// ErrUserInactive is an error for a deactivated account attempting to sign in
	ErrUserInactive = errors.New("User is not active")
)

var validationErrors = []error{
	ErrEmailRequired,
	ErrNameRequired,
	ErrPasswordRequired,
	ErrPasswordTooShort,
	ErrPasswordConfirmationMismatch,
	ErrDuplicateEmail,
	ErrTitleRequired,
	ErrBodyRequired,
	ErrInvalidCategory,
	ErrRatingOutOfRange,
	ErrEmailNotRegistered,
	ErrInvalidToken,
}

var permissionErrors = []error{
	ErrPermissionDenied,
	ErrSelfDemotion,
	ErrSelfDeactivation,
	ErrSelfDeletion,
}

func errorIn(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// IsValidationError checks if the given error represents malformed input
func IsValidationError(err error) bool {
	return errorIn(err, validationErrors)
}

// IsPermissionError checks if the given error represents an ownership or
// admin violation
func IsPermissionError(err error) bool {
	return errorIn(err, permissionErrors)
}

// IsNotFound checks if the given error represents a missing resource
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
