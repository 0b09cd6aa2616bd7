// Package ytag provides a type-tag registry for tagged YAML documents.
//
// Domain types declare, once at startup, how they are decoded from and
// encoded to tagged YAML nodes. A node carrying a custom tag such as
// !Variable is routed to the binding registered for that tag, untagged
// scalars can be claimed through implicit regular-expression patterns,
// and decoded mappings can be exposed as dynamic records that answer both
// key access and normalized field access.
//
// Basic usage:
//
//	reg := ytag.New()
//
//	// A record type: mapping nodes tagged !Variable decode into it and
//	// every key is reachable under its normalized name.
//	type Variable struct{ ytag.Record }
//	err := ytag.RegisterRecord[Variable](reg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reg.Seal()
//
//	doc, err := reg.Unmarshal([]byte("!Variable {varname: ecut, section: basic}"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v := doc.(*Variable)
//	name, _ := v.Get("varname") // "ecut"
//
// All registration happens before Seal is called; after that the registry
// is read-only and safe for concurrent decode and encode calls.
package ytag
