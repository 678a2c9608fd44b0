// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for findq's user
// configuration. The configuration is expected to be a YAML document located
// in the user's configuration directory, typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/findq.yaml or $HOME/.config/findq.yaml
//   - Windows: %APPDATA%/findq/findq.yaml
//
// The FINDQ_CFG_FILE environment variable overrides the search with an
// explicit path. Actual resolution relies on os.UserConfigDir which follows
// platform conventions.
package config
