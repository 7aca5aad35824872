// Package types defines the shared data structures for labctl: the merged
// inventory tree, per-host configuration, persisted session records, and the
// compose topology descriptor.
//
// The inventory types carry yaml tags so the same structures serve both the
// parsed source inventory and the generated session inventory. Unrecognized
// host variables ride in an inline map and are preserved verbatim through a
// rewrite.
package types
