// Package datasource opens the *sql.DB that engines persist through.
//
// SQLite (modernc.org/sqlite, pure Go) and PostgreSQL (lib/pq) are
// supported. With no configuration an in-memory SQLite database is used.
// Postgres passwords may be stored as ENC(...) and are decrypted with the
// configured encryption key when the connection string is built.
package datasource
