package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "cl***89", MaskSecret("client-secret-89"))
	assert.Equal(t, "***", MaskSecret("short"))
	assert.Equal(t, "***", MaskSecret(""))
	assert.NotContains(t, MaskSecret("super-secret-value"), "secret")
}
