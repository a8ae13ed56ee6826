// Package depgraph builds the operation dependency graph: context-word
// normalisation, edge construction by normalised-name match, union-find
// connected components, and a CRUD-ordered topological sort that seeds the
// initial corpus of chains.
package depgraph
