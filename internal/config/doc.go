// Package config handles configuration loading for daybook.
//
// # Configuration File
//
// Configuration is YAML with environment variable expansion. Default
// locations (in order):
//
//  1. Path from DAYBOOK_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/daybook/config.yaml
//  3. ~/.config/daybook/config.yaml
//
// # Sections
//
// Server settings (HTTP transport only; stdio mode ignores them):
//
//	server:
//	  http_addr: "127.0.0.1:8220"
//	  api_key: "${DAYBOOK_API_KEY}"
//
// Database:
//
//	database:
//	  path: "~/.local/share/daybook/daybook.db"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Environment Variable Expansion
//
// Values can reference environment variables with ${VAR_NAME}; unset
// variables expand to the empty string.
//
// # Validation
//
// Validate covers what every mode needs (a database path). ValidateServe
// additionally requires server.http_addr and server.api_key; the HTTP
// transport refuses to start without them, before any request is served.
package config
