/*
Package postgres manages the application's database connection. As part of the connection
process, it ensures all migrations have been run on the target database. The situation where
the database is simply a target for some testing has been considered as well: in that scenario,
the public schema is dropped before migrating.

The package also wraps *gorm.DB in a *DB exposing a narrower query surface with
consistent error translation, so callers can match on the sentinel errors
defined in the root package instead of driver specifics.
*/
package postgres
