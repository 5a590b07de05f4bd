// Package google provides OAuth2 authentication and token management for Google APIs.
//
// Tokens are cached in a single file under the user cache directory and
// refreshed transparently. A refresh that the upstream refuses (revoked
// consent, corrupt cache) surfaces as an AuthenticationError telling the
// user to re-run 'donna auth'.
//
// The TokenProvider interface allows different token sources to be plugged in,
// keeping the Calendar and Gmail clients independent of where credentials live.
package google
