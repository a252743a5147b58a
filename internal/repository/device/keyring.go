package repository

import (
	"fmt"

	"github.com/99designs/keyring"
)

type KeyringConfig interface {
	ServiceName() string
	FileDir() string
	FilePassword() string
}

// OpenKeyring opens the platform secure store (Keychain, Secret Service, WinCred),
// falling back to an encrypted file under FileDir when none is available.
func OpenKeyring(cfg KeyringConfig) (keyring.Keyring, error) {
	kr, err := keyring.Open(keyring.Config{
		ServiceName: cfg.ServiceName(),
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.FileBackend,
		},
		KeychainTrustApplication: true,
		FileDir:                  cfg.FileDir(),
		FilePasswordFunc:         keyring.FixedStringPrompt(cfg.FilePassword()),
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring %q: %w", cfg.ServiceName(), err)
	}

	return kr, nil
}
