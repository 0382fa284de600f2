package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoneyHelpers(t *testing.T) {
	assert.Equal(t, 0.3, SumMoney(0.1, 0.2))
	assert.Equal(t, 59.97, LineTotal(19.99, 3))
	assert.Equal(t, 10.13, RoundMoney(10.125))
	assert.Equal(t, 0.0, SumMoney())
}

func TestIsWholePaise(t *testing.T) {
	assert.True(t, IsWholePaise(19.99))
	assert.True(t, IsWholePaise(120))
	assert.True(t, IsWholePaise(0.1))
	assert.False(t, IsWholePaise(10.125))
	assert.False(t, IsWholePaise(0.001))
}
