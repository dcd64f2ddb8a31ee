// Package manifestation holds the core grievance record and its lifecycle
// rules: an immutable protocol assigned at creation, a monotonic status
// machine, and ownership/anonymity visibility.
package manifestation

import (
	"strings"
	"time"

	id "ouvidoria/pkg/domain"
)

// Status is the closed lifecycle enumeration of a manifestation.
type Status string

const (
	StatusPendente    Status = "pendente"
	StatusEmAndamento Status = "em_andamento"
	StatusResolvida   Status = "resolvida"
)

// ParseStatus maps a stored value onto the closed enumeration. Unrecognized
// values render as pendente instead of failing display; storage rows predate
// the enumeration and must never break a read path.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusPendente, StatusEmAndamento, StatusResolvida:
		return Status(s)
	default:
		return StatusPendente
	}
}

// IsValid reports whether s is one of the three legal values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPendente, StatusEmAndamento, StatusResolvida:
		return true
	}
	return false
}

// rank orders the lifecycle. Transitions may only move forward.
func (s Status) rank() int {
	switch s {
	case StatusEmAndamento:
		return 1
	case StatusResolvida:
		return 2
	default:
		return 0
	}
}

// CanTransition reports whether moving from s to next is legal: strictly
// forward, never back, never self.
func (s Status) CanTransition(next Status) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	return next.rank() > s.rank()
}

// Label returns the stable human-readable label for display.
func (s Status) Label() string {
	switch s {
	case StatusEmAndamento:
		return "Em andamento"
	case StatusResolvida:
		return "Resolvida"
	default:
		return "Pendente"
	}
}

// Tone names the visual affordance bound to each status. The fallback is the
// pendente tone, matching ParseStatus.
func (s Status) Tone() string {
	switch s {
	case StatusEmAndamento:
		return "accent"
	case StatusResolvida:
		return "success"
	default:
		return "warning"
	}
}

// Assuntos is the controlled subject vocabulary. "Outros" is the free-text
// fallback bucket.
var Assuntos = []string{
	"Transporte Metrô",
	"Mobilidade Urbana",
	"Saúde Pública",
	"Educação",
	"Segurança",
	"Meio Ambiente",
	"Habitação",
	"Assistência Social",
	"Outros",
}

// AssuntoOutros is the explicit fallback subject.
const AssuntoOutros = "Outros"

// IsValidAssunto reports whether assunto belongs to the controlled vocabulary.
func IsValidAssunto(assunto string) bool {
	for _, a := range Assuntos {
		if a == assunto {
			return true
		}
	}
	return false
}

// FilterAssuntos returns the vocabulary entries containing the query,
// case-insensitively. An empty query returns the full vocabulary.
func FilterAssuntos(query string) []string {
	if query == "" {
		return append([]string{}, Assuntos...)
	}
	q := strings.ToLower(query)
	var out []string
	for _, a := range Assuntos {
		if strings.Contains(strings.ToLower(a), q) {
			out = append(out, a)
		}
	}
	return out
}

// Attachment is metadata for one uploaded file. Binary content lives in
// external object storage; the record only carries the reference.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	StorageKey  string `json:"storage_key"`
}

// Manifestation is a single citizen grievance record.
//
// Protocolo is assigned atomically with creation; a manifestation is never
// observable in storage without one. Owner and CreatedAt are immutable.
type Manifestation struct {
	ID        id.ManifestationID
	Protocolo id.Protocol
	Texto     string
	Assunto   string
	Anonima   bool
	Status    Status
	Anexos    []Attachment
	Owner     id.UserID
	CreatedAt time.Time
}

// OwnedBy reports whether the given user owns this manifestation.
func (m Manifestation) OwnedBy(userID id.UserID) bool {
	return m.Owner == userID
}
