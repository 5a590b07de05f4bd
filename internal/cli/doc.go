// Package cli renders the interactive terminal surface: the welcome and
// status panels, markdown formatting for assistant replies, and the
// prompt that lets the user approve, reject, or edit a pending action.
package cli
