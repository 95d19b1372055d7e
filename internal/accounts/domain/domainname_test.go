package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverseDomainName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"SimpleDomain", "www.example.com", "moc.elpmaxe.www"},
		{"EmptyString", "", ""},
		{"SingleCharacter", "a", "a"},
		{"MixedCase", "API.Example.COM", "MOC.elpmaxE.IPA"},
		{"Unicode", "bücher.example", "elpmaxe.rehcüb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReverseDomainName(tt.input))
		})
	}
}

func TestReverseDomainName_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"www.example.com",
		"a",
		"API.Example.COM",
		"bücher.example",
		"xn--bcher-kva.example",
		"héllo.wörld.テスト",
	}

	for _, input := range inputs {
		assert.Equal(t, input, ReverseDomainName(ReverseDomainName(input)),
			"round trip failed for %q", input)
	}
}
