// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Configuration values overridden from the environment.

package cfg

import (
	"os"

	"github.com/pkg/errors"
)

// EnvString looks up a string from the environment. A variable that is
// set to the empty string is returned as is.
func EnvString(name string) (string, error) {
	val, ok := os.LookupEnv(name)
	if !ok {
		return "", errors.Errorf("%q environment variable not set", name)
	}
	return val, nil
}

// EnvSecret looks up a secret, such as a dsn carrying a password, from
// the environment. An empty variable counts as unset.
func EnvSecret(name string) (SecretData, error) {
	val, err := EnvString(name)
	if err != nil {
		return "", err
	}
	if val == "" {
		return "", errors.Errorf("%q environment variable is empty", name)
	}
	return SecretData(val), nil
}
