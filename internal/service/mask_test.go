package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"Linus@Example.com ": "l***s@example.com",
		"al@example.com":     "a***@example.com",
		"not-an-address":     "***",
		"@example.com":       "***",
	}

	for input, expected := range cases {
		require.Equal(t, expected, maskEmail(input), input)
	}
}
