// Package tokenizer implements the streaming record tokenizer and field
// processor that sits at the bottom of flowcsv: a single-pass state
// machine that turns a byte stream into a sequence of records, each a
// sequence of lazily-processed fields.
//
// The package owns three pieces of mutable state, deliberately kept
// separate so each can be reasoned about on its own:
//
//   - buffer: the growable, compacting byte buffer (C2 in the design).
//   - fieldTable: the per-record array of field descriptors (C3).
//   - counters: char/byte/row/raw-row bookkeeping (C6).
//
// Tokenizer (state.go) drives all three from NextRecord, and
// processor.process (processor.go) turns a raw field descriptor into a
// materialized string on demand.
//
// Nothing in this package touches os, net, or any other I/O surface
// beyond the io.Reader handed to New; object mapping, CSV
// writing, and encoding/transport concerns live above this package.
package tokenizer
