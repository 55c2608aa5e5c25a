//go:build !debugInibind
// +build !debugInibind

package inibind

var debugging = false

func debugf(string, ...interface{}) {}
func debug(...interface{})          {}

func callers(int) []string { return nil }
