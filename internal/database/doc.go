// Package database provides PostgreSQL connectivity and repositories.
//
// Uses pgx for connection pooling. Repositories implement the domain
// interfaces UserRepository and RoastRepository; OAuth tokens are encrypted
// at rest through crypto.Service.
package database
