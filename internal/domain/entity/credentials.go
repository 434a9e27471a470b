package entity

import (
	"errors"
	"fmt"
)

// ErrIncompleteCredentials is returned when a resolved credential set lacks a key.
var ErrIncompleteCredentials = errors.New("incomplete credentials")

// Credentials são as credenciais de um cliente resolvidas por requisição.
type Credentials struct {
	AccessKey    string `json:"-"`
	SecretKey    string `json:"-"`
	SessionToken string `json:"-"`
	Region       string `json:"region"`
	// Profile selects a named profile for providers that read local config (Azure).
	Profile string `json:"profile,omitempty"`
}

// Validate checks that the static key pair is present.
func (c Credentials) Validate() error {
	if c.AccessKey == "" || c.SecretKey == "" {
		return ErrIncompleteCredentials
	}
	return nil
}

// String nunca expõe os segredos.
func (c Credentials) String() string {
	key := "<none>"
	if len(c.AccessKey) >= 4 {
		key = c.AccessKey[:4] + "****"
	}
	return fmt.Sprintf("Credentials{access_key=%s, region=%s}", key, c.Region)
}

// Client é um cliente cadastrado no repositório de credenciais.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
