package repository

import (
	"context"
	"fmt"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open builds the store for driver and loads the default catalog into it.
// An existing sqlite file keeps its data.
func Open(ctx context.Context, driver, path string) (Store, error) {
	return open(ctx, driver, path, DefaultCatalog())
}

func open(ctx context.Context, driver, path string, cat Catalog) (Store, error) {
	switch driver {
	case DriverMemory:
		if err := cat.Validate(); err != nil {
			return nil, err
		}
		return NewMemoryStore(cat), nil
	case DriverSQLite:
		db, err := NewSQLiteDB(path)
		if err != nil {
			return nil, err
		}
		if err := db.Seed(ctx, cat); err != nil {
			db.Close()
			return nil, fmt.Errorf("error seeding database: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}
