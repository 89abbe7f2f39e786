package bindfile_test

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonekeeper/zonekeeper/internal/codec"
	"github.com/zonekeeper/zonekeeper/internal/codec/bindfile"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

func TestDecode(t *testing.T) {
	content := "$ORIGIN example.com.\n" +
		"$TTL 3600\n" +
		"@ IN A 192.168.1.1\n" +
		"www IN A 192.168.1.1\n"

	zones, parseErrs, err := bindfile.Decode(content, codec.DecodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, parseErrs)
	require.Len(t, zones, 1)

	z := zones[0]
	assert.Equal(t, "example.com.", z.Name)
	require.Len(t, z.RRSets, 2)

	apex := z.RRSet("example.com.", zone.TypeA)
	require.NotNil(t, apex)
	assert.Equal(t, uint32(3600), apex.TTL)
	require.Len(t, apex.Records, 1)
	assert.Equal(t, "192.168.1.1", apex.Records[0].Content)

	www := z.RRSet("www.example.com.", zone.TypeA)
	require.NotNil(t, www)
	assert.Equal(t, "192.168.1.1", www.Records[0].Content)
}

func TestDecodeNameResolution(t *testing.T) {
	content := "$ORIGIN example.com.\n" +
		"$TTL 300\n" +
		"@ IN NS ns1.example.com.\n" +
		"mail IN A 192.0.2.5\n" +
		"host.other.org. IN A 192.0.2.6\n"

	zones, parseErrs, err := bindfile.Decode(content, codec.DecodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, parseErrs)
	require.Len(t, zones, 1)

	z := zones[0]
	assert.NotNil(t, z.RRSet("example.com.", zone.TypeNS))
	assert.NotNil(t, z.RRSet("mail.example.com.", zone.TypeA))
	// absolute names pass through verbatim
	assert.NotNil(t, z.RRSet("host.other.org.", zone.TypeA))
}

func TestDecodeOptionalTokens(t *testing.T) {
	content := "$ORIGIN example.com.\n" +
		"$TTL 3600\n" +
		"a IN A 192.0.2.1\n" + // class, no TTL
		"b 600 IN A 192.0.2.2\n" + // TTL and class
		"c 900 A 192.0.2.3\n" + // TTL, no class
		"d A 192.0.2.4\n" // neither

	zones, parseErrs, err := bindfile.Decode(content, codec.DecodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, parseErrs)
	require.Len(t, zones, 1)

	z := zones[0]
	assert.Equal(t, uint32(3600), z.RRSet("a.example.com.", zone.TypeA).TTL)
	assert.Equal(t, uint32(600), z.RRSet("b.example.com.", zone.TypeA).TTL)
	assert.Equal(t, uint32(900), z.RRSet("c.example.com.", zone.TypeA).TTL)
	assert.Equal(t, uint32(3600), z.RRSet("d.example.com.", zone.TypeA).TTL)
}

func TestDecodeGroupsRecordsIntoRRSets(t *testing.T) {
	content := "$ORIGIN example.com.\n" +
		"$TTL 3600\n" +
		"@ IN NS ns1.example.com.\n" +
		"@ IN NS ns2.example.com.\n" +
		"@ 7200 IN MX 10 mail.example.com.\n" +
		"@ IN MX 20 backup.example.com.\n"

	zones, _, err := bindfile.Decode(content, codec.DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, zones, 1)

	ns := zones[0].RRSet("example.com.", zone.TypeNS)
	require.NotNil(t, ns)
	assert.Len(t, ns.Records, 2)

	mx := zones[0].RRSet("example.com.", zone.TypeMX)
	require.NotNil(t, mx)
	assert.Len(t, mx.Records, 2)
	// the first record of an rrset fixes the TTL
	assert.Equal(t, uint32(7200), mx.TTL)
	assert.Equal(t, "10 mail.example.com.", mx.Records[0].Content)
}

func TestDecodeMultipleOrigins(t *testing.T) {
	content := "$ORIGIN example.com.\n" +
		"$TTL 3600\n" +
		"@ IN A 192.0.2.1\n" +
		"$ORIGIN example.org.\n" +
		"@ IN A 192.0.2.2\n"

	zones, parseErrs, err := bindfile.Decode(content, codec.DecodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, parseErrs)
	require.Len(t, zones, 2)
	assert.Equal(t, "example.com.", zones[0].Name)
	assert.Equal(t, "example.org.", zones[1].Name)
}

func TestDecodeDerivesMetadata(t *testing.T) {
	content := "$ORIGIN example.com.\n" +
		"$TTL 3600\n" +
		"@ IN SOA ns1.example.com. hostmaster.example.com. 2026082907 10800 3600 604800 3600\n" +
		"@ IN NS ns1.example.com.\n" +
		"@ IN NS ns2.example.com.\n"

	zones, _, err := bindfile.Decode(content, codec.DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, zones, 1)

	assert.Equal(t, uint32(2026082907), zones[0].Serial)
	assert.Equal(t, []string{"ns1.example.com.", "ns2.example.com."}, zones[0].Nameservers)
}

func TestDecodeCommentsAndBlankLines(t *testing.T) {
	content := "; zone file for example.com\n" +
		"\n" +
		"$ORIGIN example.com.\n" +
		"$TTL 3600\n" +
		"   ; indented comment\n" +
		"@ IN A 192.0.2.1\n"

	zones, parseErrs, err := bindfile.Decode(content, codec.DecodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, parseErrs)
	require.Len(t, zones, 1)
	assert.Equal(t, 1, zones[0].RecordCount())
}

func TestDecodeSoftErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "record before any origin",
			content: "@ IN A 192.0.2.1\n",
			wantMsg: bindfile.ErrNoOrigin.Error(),
		},
		{
			name:    "unknown directive",
			content: "$GENERATE 1-10 host-$ A 192.0.2.$\n",
			wantMsg: bindfile.ErrUnknownDirective.Error(),
		},
		{
			name:    "origin without a name",
			content: "$ORIGIN\n",
			wantMsg: bindfile.ErrOriginMissingName.Error(),
		},
		{
			name:    "ttl without a value",
			content: "$TTL\n",
			wantMsg: bindfile.ErrTTLMissingValue.Error(),
		},
		{
			name:    "ttl not a number",
			content: "$TTL soon\n",
			wantMsg: bindfile.ErrTTLNotANumber.Error(),
		},
		{
			name:    "too few tokens",
			content: "$ORIGIN example.com.\nwww\n",
			wantMsg: bindfile.ErrTooFewTokens.Error(),
		},
		{
			name:    "unknown record type",
			content: "$ORIGIN example.com.\nwww IN NAPTR something\n",
			wantMsg: bindfile.ErrUnknownType.Error(),
		},
		{
			name:    "type without content",
			content: "$ORIGIN example.com.\nwww IN A\n",
			wantMsg: bindfile.ErrMissingContent.Error(),
		},
		{
			name:    "leading integer directly before a type",
			content: "$ORIGIN example.com.\n300 A 192.0.2.1\n",
			wantMsg: bindfile.ErrAmbiguousLeadingInteger.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, parseErrs, err := bindfile.Decode(tt.content, codec.DecodeOptions{})
			require.NoError(t, err)
			require.Len(t, parseErrs, 1)
			assert.Equal(t, tt.wantMsg, parseErrs[0].Message)
		})
	}
}

func TestDecodeSoftErrorsKeepGoing(t *testing.T) {
	content := "$ORIGIN example.com.\n" +
		"$TTL 3600\n" +
		"broken\n" +
		"www IN A 192.0.2.1\n"

	zones, parseErrs, err := bindfile.Decode(content, codec.DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, parseErrs, 1)
	assert.Equal(t, 3, parseErrs[0].Line)
	assert.Equal(t, "broken", parseErrs[0].Text)

	require.Len(t, zones, 1)
	assert.NotNil(t, zones[0].RRSet("www.example.com.", zone.TypeA))
}

func TestDecodeStrictAborts(t *testing.T) {
	content := "$ORIGIN example.com.\n" +
		"$TTL 3600\n" +
		"broken\n" +
		"www IN A 192.0.2.1\n"

	zones, parseErrs, err := bindfile.Decode(content, codec.DecodeOptions{Strict: true})
	require.Error(t, err)
	assert.Nil(t, zones)
	require.Len(t, parseErrs, 1)

	var perr codec.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
}

func TestDecodeAllDigitNameWithClass(t *testing.T) {
	// an all-digit owner is fine as long as the next token is not a type
	content := "$ORIGIN 2.0.192.in-addr.arpa.\n" +
		"$TTL 3600\n" +
		"10 IN PTR host.example.com.\n"

	zones, parseErrs, err := bindfile.Decode(content, codec.DecodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, parseErrs)
	require.Len(t, zones, 1)
	assert.NotNil(t, zones[0].RRSet("10.2.0.192.in-addr.arpa.", zone.TypePTR))
}

func TestDecodeOversizedLine(t *testing.T) {
	content := "$ORIGIN example.com.\n" +
		"$TTL 3600\n" +
		"@ IN A 192.0.2.1\n" +
		strings.Repeat("x", 70*1024) + "\n" +
		"www IN A 192.0.2.2\n"

	zones, parseErrs, err := bindfile.Decode(content, codec.DecodeOptions{})
	require.NoError(t, err)

	// the junk line is reported, not silently swallowed
	require.Len(t, parseErrs, 1)
	assert.Equal(t, 4, parseErrs[0].Line)

	// and the record behind it survives
	require.Len(t, zones, 1)
	assert.NotNil(t, zones[0].RRSet("www.example.com.", zone.TypeA))
}

func TestDecodeLineOverScanLimit(t *testing.T) {
	content := "$ORIGIN example.com.\n" +
		strings.Repeat("x", (1<<20)+1) + "\n" +
		"www IN A 192.0.2.1\n"

	zones, _, err := bindfile.Decode(content, codec.DecodeOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.Contains(t, err.Error(), "line 2")
	assert.Nil(t, zones)
}
