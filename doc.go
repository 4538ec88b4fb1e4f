// Package nucommand implements streaming operators over structured values.
//
// The package is organized into several sub-packages:
//
//   - value: the tagged value model (primitives, ordered records, tables),
//     column paths and path resolution
//   - stream: sources, sinks and transformers connected by channels
//   - transform: built-in operators (select, get, flatten, collect, trace)
//   - encoding/json: JSON decoder and encoder
//   - encoding/csv: CSV decoder
//   - encoding/msgpack: MessagePack decoder and encoder
//
// These can be combined to form a processing pipeline:
//
//	decode -> operator_1 -> ... -> operator_n -> encode
//
// Each stage in the pipeline runs concurrently and communicates over
// unbuffered channels, so a pipeline starts producing output as soon as the
// first operator allows it, and an operator only works as fast as its
// consumer pulls.
//
// The flagship operator is select, which down-selects a stream of records
// to the requested columns: missing columns come out as nothing cells, and
// a column that resolves to a table fans out into one output row per table
// row.  See the transform package for the exact semantics.
//
// The CLI utility is in the directory cmd/nuq.  You can install it with:
//
//	go install github.com/stormasm/nucommand/cmd/nuq
package nucommand
