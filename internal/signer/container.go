package signer

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	cserrors "github.com/devsyrem/coldstar/internal/errors"
)

// ContainerVersion is the only at-rest format version currently defined.
const ContainerVersion = 1

// Container is the at-rest representation of one encrypted Ed25519 seed.
// It is an immutable value: there is no in-place re-encryption, only
// create-new via Engine.Encrypt.
type Container struct {
	Version uint8 `json:"version"`
	// Salt for Argon2id key derivation (base64, 32 bytes decoded).
	Salt string `json:"salt"`
	// Nonce for AES-256-GCM (base64, 12 bytes decoded).
	Nonce string `json:"nonce"`
	// Ciphertext of the seed with the GCM tag appended (base64).
	Ciphertext string `json:"ciphertext"`
	// Public key recorded for out-of-band verification (base58, optional).
	PublicKey string `json:"public_key,omitempty"`
}

// containerSchema gates untrusted container JSON before it reaches the
// decoder. Unknown extra fields are tolerated for forward compatibility;
// a missing public_key is fine.
const containerSchema = `{
	"type": "object",
	"required": ["version", "salt", "nonce", "ciphertext"],
	"properties": {
		"version": {"type": "integer", "minimum": 1, "maximum": 255},
		"salt": {"type": "string"},
		"nonce": {"type": "string"},
		"ciphertext": {"type": "string"},
		"public_key": {"type": "string"}
	}
}`

var containerSchemaLoader = gojsonschema.NewStringLoader(containerSchema)

// ParseContainer validates and decodes a serialized container. Malformed
// input yields a container-format error, never a panic.
func ParseContainer(raw string) (*Container, error) {
	result, err := gojsonschema.Validate(containerSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, cserrors.Wrap(cserrors.KindContainer, err)
	}
	if !result.Valid() {
		detail := "schema validation failed"
		if errs := result.Errors(); len(errs) > 0 {
			detail = errs[0].String()
		}
		return nil, cserrors.New(cserrors.KindContainer, detail)
	}

	var c Container
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, cserrors.Wrap(cserrors.KindContainer, err)
	}
	if c.Version != ContainerVersion {
		return nil, cserrors.Newf(cserrors.KindContainer,
			"unsupported container version %d", c.Version)
	}
	return &c, nil
}

// ToJSON serializes the container. The output carries no plaintext key
// material and is safe to persist anywhere.
func (c *Container) ToJSON() (string, error) {
	out, err := json.Marshal(c)
	if err != nil {
		return "", cserrors.Wrap(cserrors.KindSerialization, err)
	}
	return string(out), nil
}
