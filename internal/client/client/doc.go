// Package client contains the outward-facing plumbing of the onboarding
// client.
//
// # Overview
//
//  1. A transport-agnostic Gateway contract for the external notification
//     service (verification, recovery and restore submissions).
//  2. HTTPGateway, which POSTs JSON bodies to <base>/verify, <base>/recovery
//     and <base>/restore and treats any 2xx as success.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring a
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable; non-2xx responses wrap ErrRejected.
// Callers decide whether to surface them; the onboarding flow only logs them.
package client
