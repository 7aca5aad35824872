// Package inventory loads the declarative host inventory that describes a
// virtual cluster: a single YAML file, or a directory of YAML files merged
// in lexicographic filename order with later files overriding individual
// host variables.
//
// Any read or parse failure surfaces as a ReadError carrying the offending
// path, so callers can report which file of a directory broke the load.
package inventory
