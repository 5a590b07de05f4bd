// Package review gates tool execution behind human approval.
//
// Every tool invocation is classified by sensitivity. Read-only calls
// pass through immediately; calls that send mail or change calendar
// state suspend until a human approves, rejects, or edits them. Gate
// is the single enforcement point: agents reach the Google adapters
// only through it.
package review
