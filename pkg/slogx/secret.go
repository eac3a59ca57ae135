package slogx

import "log/slog"

// Secret wraps a value that must never reach a log sink. It renders as
// [REDACTED] through slog, fmt and encoding/json alike.
type Secret string

const redacted = "[REDACTED]"

func (Secret) LogValue() slog.Value { return slog.StringValue(redacted) }

func (Secret) String() string { return redacted }

func (Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// Reveal returns the wrapped value.
func (s Secret) Reveal() string { return string(s) }
