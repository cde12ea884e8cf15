// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ReadPassword returns the password in passwordFile, or prompts on the
// terminal with echo disabled when passwordFile is empty or "-".
func ReadPassword(passwordFile, prompt string) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		return ReadSecretFile(passwordFile)
	}

	descriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(descriptor) {
		return "", Validation("no terminal available for an interactive password prompt").
			WithHint("Pass --password-file.")
	}
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(descriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", Internal("reading password: %w", err)
	}
	return string(password), nil
}

// ReadSecretFile reads a password file, dropping trailing newlines.
// Other whitespace is part of the password.
func ReadSecretFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", Validation("reading %s: %w", path, err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", Internal("reading %s: %w", path, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
