// sxgraph converts StackExchange data-dump XML tables into an RDF triple
// stream suitable for bulk-loading into a graph store.
//
// The conversion pipeline has four stages, mirrored by the types in this
// package:
//
// 1. RowDecoder
//
//    A RowDecoder streams one dump table (Badges.xml, Posts.xml, ...) and
//    produces raw rows one at a time until io.EOF. It knows nothing about
//    value types - it only maps the source attribute names onto the schema's
//    predicate names and establishes each row's identity. Rows with a broken
//    identity are dropped individually and counted; they never take down the
//    stream.
//
// 2. Schema
//
//    The Schema is a static registry mapping each entity kind to its
//    declared predicates, value types, and cardinality. It is parsed once at
//    startup and shared read-only by every stage, so the field mapping stays
//    a single source of truth rather than per-kind branching logic.
//
// 3. Interner
//
//    Dump tables reference each other by table-local integer ids, and the
//    files are not ordered by dependency - a Post's owner is routinely seen
//    before (or without) the User's own row. The Interner maps each
//    (kind, local id) pair to a dense uid on first touch, so forward and
//    dangling references resolve to the same node as the entity's own row
//    without a second pass over the data. In-memory interning is the
//    default; the boltdb and leveldb subpackages spill the mapping to disk
//    for dumps whose id space outgrows RAM.
//
// 4. Emitter and Sink
//
//    The Emitter turns one row into its statements - coercing values to the
//    schema-declared types, skipping absent optionals, fanning out
//    multi-valued references - and the Sink serializes each statement as one
//    N-Triples line through a caller-supplied writer. Unparseable individual
//    values are dropped and counted; write failures are fatal.
package sxgraph
