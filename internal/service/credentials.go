package service

import "mass-sign-client/internal/domain"

// CredentialInput holds the operator's credential fields and applies the CUIL
// display formatting. Pure value component; the owning workflow serializes
// access.
type CredentialInput struct {
	creds domain.Credentials
}

// NewCredentialInput creates an empty credential holder.
func NewCredentialInput() *CredentialInput {
	return &CredentialInput{}
}

// SetCUIL normalizes and reformats the raw input, stores the formatted value
// and returns it.
func (c *CredentialInput) SetCUIL(raw string) string {
	c.creds.CUIL = domain.FormatCUIL(raw)
	return c.creds.CUIL
}

// SetPassword stores the password verbatim.
func (c *CredentialInput) SetPassword(raw string) {
	c.creds.Password = raw
}

// SetPIN stores the PIN verbatim.
func (c *CredentialInput) SetPIN(raw string) {
	c.creds.PIN = raw
}

// Credentials returns the current values.
func (c *CredentialInput) Credentials() domain.Credentials {
	return c.creds
}

// NormalizedCUIL returns the digit-only CUIL.
func (c *CredentialInput) NormalizedCUIL() string {
	return domain.NormalizeCUIL(c.creds.CUIL)
}

// Complete reports whether the CUIL has all eleven digits.
func (c *CredentialInput) Complete() bool {
	return domain.IsCUILComplete(c.creds.CUIL)
}

// Reset clears every field.
func (c *CredentialInput) Reset() {
	c.creds = domain.Credentials{}
}
