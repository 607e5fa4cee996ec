// Package clock abstracts the wall clock so TOTP checks can run against a
// fixed instant in tests.
package clock
