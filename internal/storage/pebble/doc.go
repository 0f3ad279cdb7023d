// Package pebblestore provides a thin wrapper around Pebble with fsync policy,
// snapshots, batches, minimal metrics hooks, and an identifier Index.
//
// Stores are opened with Comparer(), which orders 16-byte keys exactly as
// ulid.Compare does and abbreviates them the way sortsupport does.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	ix := pebblestore.NewIndex(db)
//	id, _ := ulid.New()
//	_ = ix.Put(ctx, id, []byte("payload"))
//	_ = ix.Scan(ctx, pebblestore.ScanOptions{Since: time.Now().Add(-time.Hour)},
//	    func(id ulid.ULID, v []byte) error { return nil })
package pebblestore
