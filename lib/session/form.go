// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"regexp"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Form field names used as keys in the maps returned by the Validate
// functions.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldConfirm  = "confirm"
)

// ValidateLoginForm returns inline messages for the login form, keyed
// by field. An empty map means the form may be submitted.
//
// These checks are stricter than Login itself (they require an email
// shape) and only gate the form; Login remains the authority.
func ValidateLoginForm(email, password string) map[string]string {
	problems := make(map[string]string)
	validateEmail(problems, email)
	validatePassword(problems, password)
	return problems
}

// ValidateSignupForm returns inline messages for the signup form.
func ValidateSignupForm(email, password, confirm string) map[string]string {
	problems := ValidateLoginForm(email, password)
	if password != confirm {
		problems[FieldConfirm] = "Passwords do not match"
	}
	return problems
}

func validateEmail(problems map[string]string, email string) {
	switch {
	case email == "":
		problems[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(email):
		problems[FieldEmail] = "Invalid email format"
	}
}

func validatePassword(problems map[string]string, password string) {
	switch {
	case password == "":
		problems[FieldPassword] = "Password is required"
	case utf8.RuneCountInString(password) < MinSecretLength:
		problems[FieldPassword] = "Password must be at least 6 characters"
	}
}
