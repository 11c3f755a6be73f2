// Package plist builds ordered property-list documents and writes them as
// XML property lists.
//
// Unlike map based encoders, a Document keeps dictionary entries in the
// order they were written and allows repeated keys, which is what the
// launcher-facing Info.plist requires. Documents are assembled through a
// Builder (BeginDict, EndDict, BeginArray, EndArray, WriteKey, WriteString,
// WriteBool), are immutable once built and are serialized exactly once.
package plist
