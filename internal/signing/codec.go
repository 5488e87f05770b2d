// Package signing produces and verifies compact, URL-safe signed tokens.
//
// A token is base64url(json(payload)) + "." + base64url(HMAC-SHA256(secret, data)).
// Tokens provide integrity and authenticity only: the payload is readable by
// anyone holding the token and a verified token never expires.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const separator = "."

var (
	// ErrMalformedToken signals a token that cannot be split or decoded.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidSignature signals a token whose signature does not match its payload.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrEmptySecret is returned when a codec is built without a secret.
	ErrEmptySecret = errors.New("signing secret is empty")
	// ErrUnsupportedPayload is returned when a payload does not encode to a JSON object.
	ErrUnsupportedPayload = errors.New("payload must encode to a JSON object")
)

var encoding = base64.RawURLEncoding

// Payload is the decoded content of a verified token.
type Payload map[string]any

// Codec signs and verifies tokens with a single process-wide secret.
type Codec struct {
	secret []byte
}

// NewCodec returns a codec keyed with secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Sign serializes payload and returns a signed token. Identical payloads
// always produce identical tokens.
func (c *Codec) Sign(payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	if len(raw) == 0 || raw[0] != '{' {
		return "", ErrUnsupportedPayload
	}
	data := encoding.EncodeToString(raw)
	return data + separator + c.signature(data), nil
}

// Verify checks token and returns its payload.
func (c *Codec) Verify(token string) (Payload, error) {
	var p Payload
	if err := c.VerifyInto(token, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// VerifyInto checks token and decodes its payload into dst.
func (c *Codec) VerifyInto(token string, dst any) error {
	data, sig, ok := strings.Cut(token, separator)
	if !ok || data == "" || sig == "" {
		return ErrMalformedToken
	}
	if !hmac.Equal([]byte(sig), []byte(c.signature(data))) {
		return ErrInvalidSignature
	}

	raw, err := encoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("%w: decode payload: %v", ErrMalformedToken, err)
	}
	if len(raw) == 0 || raw[0] != '{' {
		return fmt.Errorf("%w: payload is not an object", ErrMalformedToken)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: parse payload: %v", ErrMalformedToken, err)
	}
	return nil
}

func (c *Codec) signature(data string) string {
	mac := hmac.New(sha256.New, c.secret)
	_, _ = mac.Write([]byte(data))
	return encoding.EncodeToString(mac.Sum(nil))
}
