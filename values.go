package inibind

// Key routes a raw value: the section it was found under and the
// entry name within that section.
type Key struct {
	Section string
	Entry   string
}

// Values is the flat view of a configuration source that external
// format loaders exchange with the binder.  An entry that appears
// several times in the source carries one raw string per appearance,
// in source order; sequence fields consume all of them, scalar fields
// take the last.
type Values map[Key][]string

// Add appends raw values for a (section, entry) pair.
func (v Values) Add(section string, entry string, raw ...string) {
	k := Key{Section: section, Entry: entry}
	v[k] = append(v[k], raw...)
}

// Lookup fetches the raw values for a (section, entry) pair.
func (v Values) Lookup(section string, entry string) ([]string, bool) {
	raw, ok := v[Key{Section: section, Entry: entry}]
	return raw, ok && len(raw) > 0
}
