package domain

import (
	"strings"

	dErrors "ouvidoria/pkg/domain-errors"
)

// ProtocolLength is the fixed length of every tracking code.
const ProtocolLength = 10

// ProtocolAlphabet is the closed alphabet tracking codes draw from.
const ProtocolAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Protocol is the human-facing tracking code of a manifestation. It is
// assigned exactly once at creation and never regenerated.
type Protocol string

func (p Protocol) String() string { return string(p) }

// IsZero reports whether no protocol has been assigned.
func (p Protocol) IsZero() bool { return p == "" }

// ParseProtocol validates a tracking code: exactly ProtocolLength characters,
// all drawn from ProtocolAlphabet.
func ParseProtocol(s string) (Protocol, error) {
	if len(s) != ProtocolLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "protocol must be exactly 10 characters")
	}
	for _, r := range s {
		if !strings.ContainsRune(ProtocolAlphabet, r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "protocol must be uppercase alphanumeric")
		}
	}
	return Protocol(s), nil
}
