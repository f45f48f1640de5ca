// Package store persists storyboard entities in a normalized SQLite schema.
//
// Scenes, scene analyses, visual plans and shot image specs each own a parent
// table plus one table per child collection. Saving an entity upserts the
// parent row and replaces every child collection inside a single transaction,
// so a reload always reflects exactly the latest write. Loads run one query
// per table and join rows in memory by parent key.
//
// Child tables name their parent key without declaring a foreign key, which
// lets pipeline stages persist out of order. Point lookups return nil with a
// nil error when no row exists.
package store
