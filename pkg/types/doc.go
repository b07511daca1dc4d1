// Package types defines the record contract, the untyped value representation,
// configuration, and the standard errors for the pebble mapping layer.
//
// A persistable record implements Model. Its table name and ordered field list
// are the only source of identifiers that ever reach SQL text; every runtime
// value travels as a bound parameter.
package types
