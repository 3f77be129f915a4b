// Package postgres implements the store interfaces against PostgreSQL
// through database/sql with the pgx stdlib driver.
//
// The notification ledger's TryReserve maps to a single
// INSERT ... ON CONFLICT DO NOTHING against a unique index over the
// composite notification key, which gives the first-writer-wins
// guarantee the engine relies on without an explicit transaction.
package postgres
