package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFormattedPrice(t *testing.T) {
	p := Product{Price: 2050}
	assert.InDelta(t, 20.50, p.GetFormattedPrice(), 0.001)

	free := Product{Price: 0}
	assert.Zero(t, free.GetFormattedPrice())
}
