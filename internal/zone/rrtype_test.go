package zone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zonekeeper/zonekeeper/internal/zone"
)

func TestParseRRType(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   zone.RRType
		wantOK bool
	}{
		{name: "uppercase", in: "A", want: zone.TypeA, wantOK: true},
		{name: "lowercase", in: "cname", want: zone.TypeCNAME, wantOK: true},
		{name: "mixed case with spaces", in: " Mx ", want: zone.TypeMX, wantOK: true},
		{name: "unknown type", in: "NAPTR", want: zone.RRType("NAPTR"), wantOK: false},
		{name: "empty", in: "", want: zone.RRType(""), wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := zone.ParseRRType(tt.in)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRRTypeQuoted(t *testing.T) {
	assert.True(t, zone.TypeTXT.Quoted())
	assert.True(t, zone.TypeSPF.Quoted())
	assert.False(t, zone.TypeA.Quoted())
	assert.False(t, zone.TypeCAA.Quoted())
}

func TestEnsureQuotedContent(t *testing.T) {
	tests := []struct {
		name    string
		t       zone.RRType
		content string
		want    string
	}{
		{name: "bare TXT gets wrapped", t: zone.TypeTXT, content: "v=spf1 -all", want: `"v=spf1 -all"`},
		{name: "quoted TXT unchanged", t: zone.TypeTXT, content: `"v=spf1 -all"`, want: `"v=spf1 -all"`},
		{name: "quoted sequence unchanged", t: zone.TypeTXT, content: `"part one" "part two"`, want: `"part one" "part two"`},
		{name: "embedded quotes escaped", t: zone.TypeTXT, content: `say "hello"`, want: `"say \"hello\""`},
		{name: "whitespace only", t: zone.TypeSPF, content: "   ", want: `""`},
		{name: "empty unchanged", t: zone.TypeTXT, content: "", want: ""},
		{name: "non quoted type unchanged", t: zone.TypeA, content: "192.0.2.1", want: "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, zone.EnsureQuotedContent(tt.t, tt.content))
		})
	}
}
