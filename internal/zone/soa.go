package zone

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SOA holds the seven fields of an SOA record content string, in wire order.
// It is derived on demand from the record content, never stored separately.
type SOA struct {
	Primary string `json:"primary"`
	Mailbox string `json:"mailbox"`
	Serial  uint32 `json:"serial"`
	Refresh uint32 `json:"refresh"`
	Retry   uint32 `json:"retry"`
	Expire  uint32 `json:"expire"`
	Minimum uint32 `json:"minimum"`
}

const soaFieldCount = 7

// ErrMalformedSOA is returned when an SOA content string does not consist of
// the seven expected tokens.
var ErrMalformedSOA = errors.New("malformed SOA content")

// ParseSOA parses the space-separated SOA content string.
func ParseSOA(content string) (SOA, error) {
	fields := strings.Fields(content)
	if len(fields) != soaFieldCount {
		return SOA{}, errors.Wrap(ErrMalformedSOA, fmt.Sprintf("%d tokens, want %d", len(fields), soaFieldCount))
	}

	numbers := make([]uint32, soaFieldCount-2)

	for i, field := range fields[2:] {
		v, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return SOA{}, errors.Wrap(ErrMalformedSOA, "token "+field+" is not an unsigned integer")
		}

		numbers[i] = uint32(v)
	}

	return SOA{
		Primary: fields[0],
		Mailbox: fields[1],
		Serial:  numbers[0],
		Refresh: numbers[1],
		Retry:   numbers[2],
		Expire:  numbers[3],
		Minimum: numbers[4],
	}, nil
}

// String formats the SOA back into the canonical content string.
func (s SOA) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d",
		s.Primary, s.Mailbox, s.Serial, s.Refresh, s.Retry, s.Expire, s.Minimum)
}
