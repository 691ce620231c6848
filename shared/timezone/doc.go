// Package timezone provides timezone utilities for the application.
//
// All booking instants are stored and compared as timezone-aware values;
// helpers here keep parsing and formatting anchored to the configured
// application timezone.
//
// Supported timezone formats:
// - Standard IANA names only: "UTC", "Asia/Jakarta", "America/New_York"
//
// The timezone is configured via the APP_TIMEZONE environment variable
// and is automatically initialized when the package is imported.
package timezone
