package zone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonekeeper/zonekeeper/internal/zone"
)

func TestParseSOA(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    zone.SOA
		wantErr error
	}{
		{
			name:    "canonical content",
			content: "ns1.example.com. hostmaster.example.com. 2026082901 10800 3600 604800 3600",
			want: zone.SOA{
				Primary: "ns1.example.com.",
				Mailbox: "hostmaster.example.com.",
				Serial:  2026082901,
				Refresh: 10800,
				Retry:   3600,
				Expire:  604800,
				Minimum: 3600,
			},
		},
		{
			name:    "extra whitespace is tolerated",
			content: "  ns1.example.com.   hostmaster.example.com.  1 2 3 4 5 ",
			want: zone.SOA{
				Primary: "ns1.example.com.",
				Mailbox: "hostmaster.example.com.",
				Serial:  1,
				Refresh: 2,
				Retry:   3,
				Expire:  4,
				Minimum: 5,
			},
		},
		{
			name:    "too few tokens",
			content: "ns1.example.com. hostmaster.example.com. 1 2 3",
			wantErr: zone.ErrMalformedSOA,
		},
		{
			name:    "non numeric token",
			content: "ns1.example.com. hostmaster.example.com. x 2 3 4 5",
			wantErr: zone.ErrMalformedSOA,
		},
		{
			name:    "empty content",
			content: "",
			wantErr: zone.ErrMalformedSOA,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := zone.ParseSOA(tt.content)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSOAString(t *testing.T) {
	soa := zone.SOA{
		Primary: "ns1.example.com.",
		Mailbox: "hostmaster.example.com.",
		Serial:  2026082901,
		Refresh: 10800,
		Retry:   3600,
		Expire:  604800,
		Minimum: 3600,
	}

	content := soa.String()
	assert.Equal(t, "ns1.example.com. hostmaster.example.com. 2026082901 10800 3600 604800 3600", content)

	// content round trips through the parser
	parsed, err := zone.ParseSOA(content)
	require.NoError(t, err)
	assert.Equal(t, soa, parsed)
}
