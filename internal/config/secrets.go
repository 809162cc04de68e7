/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// Service/keys for the OS keyring.
const (
	keyringService  = "GoFloorplan"
	keyringPassword = "backend_password"
)

// ErrNoSecret is returned when the keyring holds no value for a key.
var ErrNoSecret = errors.New("secret not found")

// SecretStore abstracts the keyring so tests can swap it.
type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// secrets is the process-wide store; tests replace it via SetSecretStore.
var secrets SecretStore = osKeyring{}

// SetSecretStore swaps the secret store and returns the previous one.
func SetSecretStore(s SecretStore) SecretStore {
	prev := secrets
	secrets = s
	return prev
}

// osKeyring implements SecretStore using the OS keyring via github.com/zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) {
	v, err := keyring.Get(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoSecret
	}
	return v, err
}

func (osKeyring) Set(service, key, value string) error { return keyring.Set(service, key, value) }

func (osKeyring) Delete(service, key string) error {
	err := keyring.Delete(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// BackendPassword reads the archive database password from the keyring.
func BackendPassword() (string, error) { return secrets.Get(keyringService, keyringPassword) }

// SetBackendPassword stores the archive database password in the keyring.
func SetBackendPassword(pw string) error { return secrets.Set(keyringService, keyringPassword, pw) }

// ClearBackendPassword removes the stored password; a missing entry is not an error.
func ClearBackendPassword() error { return secrets.Delete(keyringService, keyringPassword) }
