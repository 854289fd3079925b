// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Secret configuration values.

package cfg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Secret is a configuration value read from a file, such as a mounted
// database password or dsn.
type Secret struct {
	Path string `yaml:"path"`
}

// Data reads the secret. Surrounding whitespace is trimmed.
//
// Do not cache this value.
func (s Secret) Data(_ context.Context) (SecretData, error) {
	if s.Path == "" {
		return "", errors.New("secret has no path")
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", errors.Wrap(err, "read secret")
	}
	return SecretData(strings.TrimSpace(string(b))), nil
}

// SecretData just wraps strings so we don't accidentally log secret
// data.
//
// Do not store SecretData -- it is only meant to be kept in scope
// variables and as arguments.
type SecretData string

// MarshalJSON implements a dummy json.Marshaler
func (s SecretData) MarshalJSON() ([]byte, error) {
	return []byte(`"redacted"`), nil
}

// MarshalYAML implements a dummy yaml.Marshaler
func (s SecretData) MarshalYAML() (interface{}, error) {
	return "redacted", nil
}

// GoString implements the GoStringer interface
func (s SecretData) GoString() string {
	return "redacted"
}

// Format implements fmt.Formatter
func (s SecretData) Format(f fmt.State, _ rune) {
	if _, err := f.Write([]byte("redacted")); err != nil {
		panic(err)
	}
}

// LogValue implements slog.LogValuer.
func (s SecretData) LogValue() slog.Value {
	return slog.StringValue("redacted")
}
