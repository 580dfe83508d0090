// Package sanitizer normalizes free-form input before it is validated.
//
// All functions are idempotent and never fail; unusable input collapses to an
// empty string and is then rejected by validation.
package sanitizer
