package textfold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "salarios", Fold("Salários"))
	assert.Equal(t, "instalacoes", Fold("INSTALAÇÕES"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("salario", "Pago de Salários"))
	assert.True(t, Contains("", "cualquiera"))
	assert.True(t, Contains("  ", "cualquiera"))
	assert.True(t, Contains("gerente", "Ana", "Gerente Comercial"))
	assert.False(t, Contains("marketing", "Arriendo", "Servicios"))
}
