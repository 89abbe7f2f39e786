package bindfile

import (
	"errors"
)

var (
	// ErrNoOrigin is returned for a record line before any $ORIGIN directive.
	ErrNoOrigin = errors.New("record line before $ORIGIN directive")

	// ErrOriginMissingName is returned for an $ORIGIN directive without a name.
	ErrOriginMissingName = errors.New("$ORIGIN directive without a name")

	// ErrTTLMissingValue is returned for a $TTL directive without a value.
	ErrTTLMissingValue = errors.New("$TTL directive without a value")

	// ErrTTLNotANumber is returned when a TTL token is not an unsigned integer.
	ErrTTLNotANumber = errors.New("TTL is not an unsigned integer")

	// ErrUnknownDirective is returned for unsupported $-directives.
	ErrUnknownDirective = errors.New("unsupported directive")

	// ErrTooFewTokens is returned for record lines with fewer than two tokens.
	ErrTooFewTokens = errors.New("record line has too few tokens")

	// ErrAmbiguousLeadingInteger is returned when the leading token could be
	// either an owner name or a TTL.
	ErrAmbiguousLeadingInteger = errors.New("ambiguous leading integer: owner name or TTL")

	// ErrMissingType is returned when no record type token is found.
	ErrMissingType = errors.New("missing record type")

	// ErrUnknownType is returned for record types outside the enumeration.
	ErrUnknownType = errors.New("unknown record type")

	// ErrMissingContent is returned for record lines without content tokens.
	ErrMissingContent = errors.New("missing record content")
)
