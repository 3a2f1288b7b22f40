// Package client contains client-side building blocks for tasktracker.
//
// # Overview
//
// The package provides:
//  1. An API contract (see the Client interface) for the tasktracker REST
//     backend: Signup/Login, task CRUD and Ping.
//  2. A concrete HTTP implementation (see HTTPClient) on top of fiber's
//     Agent. It keeps the session token, sends it as a bearer header and
//     maps HTTP statuses to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the CLI's SQLite file and applies embedded goose migrations.
//
// # Error Handling
//
// Callers match failures with errors.Is against ErrUnavailable,
// ErrUnauthorized, ErrNotFound and ErrRejected. ErrRejected carries the
// server's message, e.g. "request rejected: Invalid email or password.".
package client
