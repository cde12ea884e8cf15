// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads TicketFlow's configuration.
//
// The configuration file is named by the --config flag or the
// TICKETFLOW_CONFIG environment variable. When neither is set,
// [Default] applies: a file-backed store under the XDG data directory
// and three-second notifications. Files ending in .json or .jsonc are
// parsed as JSON with comments and trailing commas; everything else is
// parsed as YAML.
//
// Environment sections (development, staging, production) override
// base values when [Config].Environment matches. Path fields accept
// ${HOME}, ${TICKETFLOW_DATA} and ${VAR:-default} expansion after
// loading.
package config
