// Package versiondb keeps expensive per-version game datasets in memory.
// A dataset is identified by a Key: a game version plus an ordered mod list,
// serialized as "version[:mod1:mod2...]".
//
// Components:
//   - Key codec: ParseKey / Key.String, and query helpers (UpdateQuery,
//     UpdateVersion, Linker) that derive links toggling one dimension while
//     keeping the rest of the request's query string.
//   - Cache[D]: validates keys against the configured versions and mods,
//     builds missing datasets through a Builder[D], and keeps at most
//     MaxResident of them (least recently used evicted first).
//
// Access order is a process-local counter, not wall-clock time. Every Get
// bumps it, so eviction always picks the entry touched longest ago.
//
// Usage:
//
//	dbs, _ := versiondb.New[*unitdb.Dataset](versiondb.Options[*unitdb.Dataset]{
//	    Versions: cfg.VersionNames(), // last = default
//	    Mods:     cfg.ModNames(),
//	    Builder:  builder,
//	    Logger:   zaplog.ZapLogger{L: zl},
//	})
//	db, err := dbs.Get(ctx, r.URL.Query().Get("version"))
//	if errors.Is(err, versiondb.ErrNotFound) { /* 404 */ }
package versiondb
