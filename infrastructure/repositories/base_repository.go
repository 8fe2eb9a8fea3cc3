package repositories

import (
	"database/sql"

	"listkeeper/database"
)

// BaseRepository provides common SQL type conversion methods and database access that can be embedded in all repositories.
type BaseRepository struct {
	db *database.Database
}

// NewBaseRepository creates a new BaseRepository with database access
func NewBaseRepository(database *database.Database) *BaseRepository {
	return &BaseRepository{
		db: database,
	}
}

// ReadQueries returns the read pool for SELECT statements
func (b *BaseRepository) ReadQueries() *database.Queries {
	return b.db.ReadQueries()
}

// WriteQueries returns the serialized write connection for INSERT/UPDATE/DELETE statements
func (b *BaseRepository) WriteQueries() *database.Queries {
	return b.db.WriteQueries()
}

// FromNullString safely converts sql.NullString to string.
// Returns empty string if the SQL value is NULL.
func (b *BaseRepository) FromNullString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}
