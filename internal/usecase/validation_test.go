package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	valid := []string{"+79001234567", "89001234567", "79001234567", "9001234567", "+7 900 123-45-67", "8 (900) 123.45.67"}
	for _, raw := range valid {
		got, ok := NormalizePhone(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, "+79001234567", got, raw)
	}

	invalid := []string{"", "12345", "+89001234567", "+9001234567", "900123456a", "9-0-0#1234567", "790012345678"}
	for _, raw := range invalid {
		_, ok := NormalizePhone(raw)
		assert.False(t, ok, raw)
	}
}

func TestSamePhone(t *testing.T) {
	assert.True(t, SamePhone("+79001234567", "8 900 123 45 67"))
	assert.False(t, SamePhone("+79001234567", "+79001234568"))
	assert.False(t, SamePhone("bad", "bad"))
}

func TestValidateCreateInputAccepts(t *testing.T) {
	in := deliveryInput(farAddress, item("pizza", 1))
	in.CutleryCount = 2
	assert.NoError(t, validateCreateInput(in))
	assert.NoError(t, validateCreateInput(pickupInput(item("pizza", 99))))
}
