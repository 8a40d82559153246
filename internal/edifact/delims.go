package edifact

import (
	"errors"
	"fmt"
)

const (
	unaPrefix = "UNA"
	unaLength = 9
)

var (
	ErrUNALength = errors.New("UNA header must be exactly 9 bytes")
	ErrUNAPrefix = errors.New("service string advice does not start with UNA")
)

// Delimiters holds the six active EDIFACT service characters of one
// interchange. The zero value is not usable; start from DefaultDelimiters
// or DetectDelimiters.
type Delimiters struct {
	Component  byte
	Element    byte
	Decimal    byte
	Release    byte
	Reserved   byte
	Terminator byte
}

// DefaultDelimiters returns the UN/EDIFACT level A default service characters.
func DefaultDelimiters() Delimiters {
	return Delimiters{
		Component:  ':',
		Element:    '+',
		Decimal:    '.',
		Release:    '?',
		Reserved:   ' ',
		Terminator: '\'',
	}
}

// DetectDelimiters inspects the start of an interchange buffer for a UNA
// service string advice. It returns the active delimiter set and the byte
// offset at which segment content begins. Detection never fails: any buffer
// that does not carry a well-formed UNA header yields the defaults with
// content starting at offset 0.
func DetectDelimiters(data []byte) (Delimiters, int) {
	if len(data) >= unaLength && string(data[:len(unaPrefix)]) == unaPrefix {
		d, err := ParseUNA(data[:unaLength])
		if err == nil {
			return d, unaLength
		}
	}
	return DefaultDelimiters(), 0
}

// ParseUNA parses exactly one 9-byte service string advice. Unlike
// DetectDelimiters it reports malformed input instead of falling back.
func ParseUNA(header []byte) (Delimiters, error) {
	if len(header) != unaLength {
		return Delimiters{}, fmt.Errorf("%w: got %d", ErrUNALength, len(header))
	}
	if string(header[:len(unaPrefix)]) != unaPrefix {
		return Delimiters{}, ErrUNAPrefix
	}
	return Delimiters{
		Component:  header[3],
		Element:    header[4],
		Decimal:    header[5],
		Release:    header[6],
		Reserved:   header[7],
		Terminator: header[8],
	}, nil
}

// UNA renders the delimiter set as a 9-byte service string advice.
func (d Delimiters) UNA() []byte {
	return []byte{'U', 'N', 'A', d.Component, d.Element, d.Decimal, d.Release, d.Reserved, d.Terminator}
}

// isService reports whether b plays a splitting role at any level.
func (d Delimiters) isService(b byte) bool {
	return b == d.Component || b == d.Element || b == d.Release || b == d.Terminator
}
