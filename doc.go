// Obligatory // comment

/*
Package inibind converts raw configuration text into typed values and
binds it onto struct fields.  It is the engine underneath file-format
loaders (INI, JSON, registry-style sources): they parse their syntax
and hand this package a flat set of (section, entry) raw strings; this
package does the rest.

The basics start with NewBinder().  Use functional args to select the
converter registry, the struct tag, and an optional validator.  Call
Bind() with a pointer to your settings struct and the Values a loader
produced.  Call Export() to turn the struct's current values back into
raw strings for write-back.

Routing is declared with the "ini" tag (override with WithTag()):

	type Web struct {
		Host  string `ini:"host"`
		Port  int    `ini:"port"`
		Debug bool   `ini:",section=diagnostics"`
		Skip  string `ini:"-"`
	}

An untagged exported field is routed to the entry matching its name in
the section matching the name of the struct type that declares it.
Nested structs are descended into, each contributing its own default
section, so one Bind call can populate a whole settings tree.

Conversion goes through a Registry of ValueConverters keyed by
destination type.  NewExtendedRegistry(), the binder's default,
understands integer literals in four bases, written with prefixes or
trailing suffix letters:

	0xFF  FFh   -> 255
	0o77  77o   -> 63
	0b101 101b  -> 5

plus relaxed booleans (true/false, yes/no, on/off, 1/0, any integer
literal), locale tags ("en-US"), and IANA encoding names ("utf-8").
NewDefaultRegistry() starts empty.  Either registry synthesizes stock
converters lazily for types it has no entry for, so durations,
IP addresses, and anything implementing encoding.TextUnmarshaler work
without registration.

Binding is best-effort: a missing entry, or raw text that fails to
convert, leaves the destination field at its previous value and the
rest of the struct still binds.  BindCollect() reports what was
skipped.  Formatting is deliberately lossy in one direction: a value
parsed from "0xFF" exports as "255".
*/
package inibind
