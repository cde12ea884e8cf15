// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build version information for the ticketflow
// binary.
//
// Release builds inject it via -ldflags, for example:
//
//	go build -ldflags "-X github.com/ticketflow/ticketflow/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Other builds fall back to the vcs stamp in the module build info.
package version
