// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package auth

// KeyValidator checks API keys against the configured allow set.
// Keys carry no identity: a valid key admits the request anonymously.
// The set is fixed at startup and never mutated, so lookups are lock-free.
type KeyValidator struct {
	keys map[string]struct{}
}

// NewKeyValidator builds a validator from the configured key list.
func NewKeyValidator(keys []string) *KeyValidator {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return &KeyValidator{keys: set}
}

// Validate reports whether key is an exact member of the configured set.
func (v *KeyValidator) Validate(key string) bool {
	if key == "" {
		return false
	}
	_, ok := v.keys[key]
	return ok
}

// Len returns the number of configured keys.
func (v *KeyValidator) Len() int {
	return len(v.keys)
}
