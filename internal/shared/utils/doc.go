// Package utils provides input validation and hashing helpers shared by
// the HTTP and WebSocket surfaces.
package utils
