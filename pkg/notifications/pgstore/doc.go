// Package pgstore implements notification storage and the user directory on
// Postgres through pgx. The schema is created by pg.Migrate.
package pgstore
