// Package dict resolves EDIFACT qualifier codes to human-readable names.
// Code lists are keyed by the segment tag they qualify, so the same code
// can mean different things in different segments.
package dict

import (
	"fmt"
	"strings"
)

type Entry struct {
	Segment string
	Code    string
	Name    string
}

type Store struct {
	entries map[entryKey]Entry
}

type entryKey struct {
	segment string
	code    string
}

type YAMLFile struct {
	Qualifiers []YAMLEntry `yaml:"qualifiers"`
}

type YAMLEntry struct {
	Segment string `yaml:"segment"`
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
}

func FromYAML(file YAMLFile) (*Store, error) {
	store := &Store{entries: make(map[entryKey]Entry)}
	for i, entry := range file.Qualifiers {
		segment := strings.ToUpper(strings.TrimSpace(entry.Segment))
		if len(segment) != 3 {
			return nil, fmt.Errorf("qualifiers[%d]: segment tag must be three characters", i)
		}
		code := strings.TrimSpace(entry.Code)
		if code == "" {
			return nil, fmt.Errorf("qualifiers[%d]: empty code", i)
		}
		key := entryKey{segment: segment, code: code}
		if _, exists := store.entries[key]; exists {
			return nil, fmt.Errorf("qualifiers[%d]: duplicate %s/%s", i, segment, code)
		}
		store.entries[key] = Entry{
			Segment: segment,
			Code:    code,
			Name:    strings.TrimSpace(entry.Name),
		}
	}
	return store, nil
}

func (s *Store) Lookup(segment, code string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	key := entryKey{segment: strings.ToUpper(segment), code: code}
	entry, ok := s.entries[key]
	return entry, ok
}

// Describe returns the name for a qualifier, or the code itself when the
// dictionary has no entry for it.
func (s *Store) Describe(segment, code string) string {
	if entry, ok := s.Lookup(segment, code); ok && entry.Name != "" {
		return entry.Name
	}
	return code
}

func (s *Store) IsEmpty() bool {
	if s == nil {
		return true
	}
	return len(s.entries) == 0
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Default returns the built-in code list covering the qualifiers the
// converter emits and consumes.
func Default() *Store {
	store, err := FromYAML(YAMLFile{Qualifiers: builtinQualifiers})
	if err != nil {
		panic(err)
	}
	return store
}

var builtinQualifiers = []YAMLEntry{
	{Segment: "NAD", Code: "MS", Name: "Absender"},
	{Segment: "NAD", Code: "MR", Name: "Empfaenger"},
	{Segment: "NAD", Code: "DP", Name: "Lieferanschrift"},
	{Segment: "LOC", Code: "Z16", Name: "Marktlokation"},
	{Segment: "LOC", Code: "Z17", Name: "Messlokation"},
	{Segment: "SEQ", Code: "Z01", Name: "Bilanzierungsdaten"},
	{Segment: "SEQ", Code: "Z02", Name: "Zaehlerdaten"},
	{Segment: "SEQ", Code: "Z03", Name: "Zaehlerdaten"},
	{Segment: "SEQ", Code: "Z98", Name: "Zeitscheibe"},
	{Segment: "DTM", Code: "137", Name: "Nachrichtendatum"},
	{Segment: "DTM", Code: "Z21", Name: "Zeitscheibenbeginn"},
	{Segment: "DTM", Code: "Z22", Name: "Zeitscheibenende"},
	{Segment: "IDE", Code: "24", Name: "Transaktion"},
	{Segment: "RFF", Code: "Z13", Name: "Pruefidentifikator"},
	{Segment: "CCI", Code: "Z19", Name: "Bilanzierungsgebiet"},
	{Segment: "PIA", Code: "5", Name: "Produktnummer"},
}
