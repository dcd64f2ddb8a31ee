package manifestation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus_FallsBackToPendente(t *testing.T) {
	cases := map[string]Status{
		"pendente":     StatusPendente,
		"em_andamento": StatusEmAndamento,
		"resolvida":    StatusResolvida,
		"":             StatusPendente,
		"arquivada":    StatusPendente,
		"PENDENTE":     StatusPendente,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseStatus(input), "input %q", input)
	}
}

func TestStatus_CanTransition(t *testing.T) {
	t.Run("forward transitions are legal", func(t *testing.T) {
		assert.True(t, StatusPendente.CanTransition(StatusEmAndamento))
		assert.True(t, StatusPendente.CanTransition(StatusResolvida))
		assert.True(t, StatusEmAndamento.CanTransition(StatusResolvida))
	})

	t.Run("backward and self transitions are illegal", func(t *testing.T) {
		assert.False(t, StatusEmAndamento.CanTransition(StatusPendente))
		assert.False(t, StatusResolvida.CanTransition(StatusPendente))
		assert.False(t, StatusResolvida.CanTransition(StatusEmAndamento))
		assert.False(t, StatusPendente.CanTransition(StatusPendente))
		assert.False(t, StatusResolvida.CanTransition(StatusResolvida))
	})

	t.Run("unknown statuses never transition", func(t *testing.T) {
		assert.False(t, Status("arquivada").CanTransition(StatusResolvida))
		assert.False(t, StatusPendente.CanTransition(Status("arquivada")))
	})
}

func TestStatus_LabelAndTone(t *testing.T) {
	assert.Equal(t, "Pendente", StatusPendente.Label())
	assert.Equal(t, "Em andamento", StatusEmAndamento.Label())
	assert.Equal(t, "Resolvida", StatusResolvida.Label())

	// Unrecognized values get the pendente affordance rather than breaking
	// display.
	assert.Equal(t, "Pendente", Status("arquivada").Label())
	assert.Equal(t, "warning", Status("arquivada").Tone())
	assert.Equal(t, "accent", StatusEmAndamento.Tone())
	assert.Equal(t, "success", StatusResolvida.Tone())
}

func TestIsValidAssunto(t *testing.T) {
	assert.True(t, IsValidAssunto("Transporte Metrô"))
	assert.True(t, IsValidAssunto("Outros"))
	assert.False(t, IsValidAssunto(""))
	assert.False(t, IsValidAssunto("Esportes"))
}

func TestFilterAssuntos(t *testing.T) {
	t.Run("matches case-insensitively", func(t *testing.T) {
		got := FilterAssuntos("metrô")
		assert.Equal(t, []string{"Transporte Metrô"}, got)
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		assert.Len(t, FilterAssuntos(""), len(Assuntos))
	})

	t.Run("no match returns empty", func(t *testing.T) {
		assert.Empty(t, FilterAssuntos("xyz"))
	})
}
