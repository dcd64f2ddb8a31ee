// Package protocol produces the human-shareable tracking codes assigned to
// manifestations at creation.
package protocol

import (
	"crypto/rand"
	"fmt"

	id "ouvidoria/pkg/domain"
)

// Generator produces fixed-length uppercase alphanumeric tracking codes.
// Uniqueness is enforced by the store's constraint on protocolo; callers
// retry with a fresh code on conflict.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a new candidate tracking code. 36^10 combinations make
// collisions against the store constraint negligible in practice.
func (g *Generator) Generate() (id.Protocol, error) {
	buf := make([]byte, id.ProtocolLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate protocol: %w", err)
	}
	for i, b := range buf {
		buf[i] = id.ProtocolAlphabet[int(b)%len(id.ProtocolAlphabet)]
	}
	return id.Protocol(buf), nil
}
