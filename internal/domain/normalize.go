package domain

import "golang.org/x/text/unicode/norm"

// Normalize returns s in Unicode NFC so that ids and tags typed on
// different platforms compare equal.
func Normalize(s string) string {
	return norm.NFC.String(s)
}
