package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlayerName(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{name: "case folded", a: "Murphy", b: "murphy", same: true},
		{name: "whitespace trimmed", a: " Kat ", b: "kat", same: true},
		{name: "accents transliterated", a: "José", b: "jose", same: true},
		{name: "distinct names stay distinct", a: "Benny", b: "Lenny", same: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.same {
				assert.Equal(t, NormalizePlayerName(tt.a), NormalizePlayerName(tt.b))
			} else {
				assert.NotEqual(t, NormalizePlayerName(tt.a), NormalizePlayerName(tt.b))
			}
		})
	}
}
