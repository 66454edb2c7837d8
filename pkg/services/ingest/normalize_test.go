package ingest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "nil", raw: nil, want: 0},
		{name: "dash placeholder", raw: "-", want: 0},
		{name: "float passthrough", raw: 12.75, want: 12.75},
		{name: "int passthrough", raw: 42, want: 42},
		{name: "int64 passthrough", raw: int64(7), want: 7},
		{name: "thousands and decimal comma", raw: "1.234,56", want: 1234.56},
		{name: "currency prefix", raw: "R$ 10,00", want: 10},
		{name: "currency with thousands", raw: "R$ 1.234.567,89", want: 1234567.89},
		{name: "percent suffix", raw: "12,5%", want: 12.5},
		{name: "plain integer text", raw: "100", want: 100},
		{name: "negative", raw: "-3,5", want: -3.5},
		{name: "period only is thousands", raw: "1.500", want: 1500},
		{name: "leading decimal comma", raw: ",5", want: 0.5},
		{name: "empty", raw: "", want: 0},
		{name: "letters only", raw: "abc", want: 0},
		{name: "double dash", raw: "--5", want: 0},
		{name: "trailing garbage after number", raw: "12-3", want: 12},
		{name: "two decimal commas", raw: "1,2,3", want: 1.2},
		{name: "negative zero collapses", raw: "-0,00", want: 0},
		{name: "unsupported type", raw: struct{}{}, want: 0},
		{name: "bool", raw: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, math.Signbit(got) && got == 0, "negative zero leaked")
		})
	}
}

func TestNormalize_NeverPanics(t *testing.T) {
	inputs := []any{"", ".", ",", "-.", "-,", "R$", "%", "1e10", "∞", "9999999999999999999999999999999999999999", []byte("1")}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = Normalize(in) })
	}
}
