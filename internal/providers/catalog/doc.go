// Package catalog exposes the console's command table as a service, so
// clients can build help screens and completion without a session.
package catalog
