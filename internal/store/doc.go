// Package store persists fuel cycle run summaries in SQLite.
//
// Each run gets a UUIDv7 ID and a logical sequence number assigned inside
// the insert transaction. Listings order by seq, then id, so output is
// stable regardless of wall-clock time or insertion races.
//
// A run row carries the scalar results and the canonical parameter JSON.
// Its seed history lives in iterations and its inventory envelopes in
// extrema. Full time series are not stored; they can be regenerated from
// the recorded input.
package store
