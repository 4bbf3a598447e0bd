// Package ioodm2 writes WaterML time series to an ODM2 SQLite file.
// This is an impure I/O package that implements resource.Mapper.
//
// Rows that have a natural key (site code, variable code, unit name and so
// on) are reused when they already exist. Every series is written in its
// own transaction, so a failed series leaves no rows behind while series
// written before it stay.
package ioodm2

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	"github.com/gnames/hsrc/pkg/config"
	"github.com/gnames/hsrc/pkg/resource"
	"github.com/gnames/hsrc/pkg/schema"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"
)

type odm2 struct {
	db    *sql.DB
	path  string
	cfg   config.ODM2Config
	clock clockwork.Clock
	uuid  func() string
}

// Option configures the mapper.
type Option func(*odm2)

// OptClock sets the clock used for affiliation and result dates.
func OptClock(c clockwork.Clock) Option {
	return func(o *odm2) {
		o.clock = c
	}
}

// OptUUID sets the generator of dataset and result UUIDs.
func OptUUID(fn func() string) Option {
	return func(o *odm2) {
		o.uuid = fn
	}
}

// Create makes a new ODM2 SQLite file at path and returns a mapper that
// writes to it. An existing file at path is replaced.
func Create(
	ctx context.Context,
	path string,
	cfg config.ODM2Config,
	opts ...Option,
) (resource.Mapper, error) {
	res := &odm2{
		path:  path,
		cfg:   cfg,
		clock: clockwork.NewRealClock(),
		uuid:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(res)
	}

	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, ODM2CreateError(path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ODM2CreateError(path, err)
	}
	// one writer, no pool
	db.SetMaxOpenConns(1)
	res.db = db

	if err = res.createSchema(ctx); err != nil {
		db.Close()
		return nil, ODM2CreateError(path, err)
	}

	slog.Info("Created ODM2 database", "path", path)
	return res, nil
}

// createSchema runs DDL of all models in one transaction.
// Foreign keys are declared but not enforced, SQLite keeps them off
// by default.
func (o *odm2) createSchema(ctx context.Context) error {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, m := range schema.AllModels() {
		if _, err = tx.ExecContext(ctx, m.TableDDL()); err != nil {
			return err
		}
		for _, idx := range m.IndexDDL() {
			if _, err = tx.ExecContext(ctx, idx); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Close releases the database.
func (o *odm2) Close() error {
	if o.db == nil {
		return nil
	}
	err := o.db.Close()
	o.db = nil
	return err
}
