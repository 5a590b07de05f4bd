// Package mcpserver exposes the assistant's calendar and email tools
// over the Model Context Protocol so external AI clients can use them.
//
// Every call funnels through the same review gate as the chat surface.
// A stdio transport has no human attached, so sensitive actions resolve
// by policy instead: rejected with remediation guidance by default,
// approved when the server was started with --yolo. A dedicated HTTP
// port can serve Prometheus metrics alongside the transport.
package mcpserver
