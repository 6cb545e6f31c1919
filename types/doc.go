// Package types defines the column type system: data types, constraints,
// schemas, boxed values and the widening rules used for inserts and
// predicate literals.
package types
