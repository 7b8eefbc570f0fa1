package services

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	apperrors "github.com/yungbote/mycoach-backend/internal/pkg/errors"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

// CredentialSealer encrypts provider credentials for storage in
// data_source_configs. The sealed form is base64(nonce || ciphertext) under
// XChaCha20-Poly1305 with a 32-byte key from CREDENTIALS_KEY (hex).
type CredentialSealer interface {
	Seal(email, password string) (string, error)
	Open(sealed string) (email, password string, err error)
}

type credentialSealer struct {
	log *logger.Logger
	key []byte
}

type credentialPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewCredentialSealer(baseLog *logger.Logger, keyHex string) (CredentialSealer, error) {
	if keyHex == "" {
		return nil, fmt.Errorf("missing CREDENTIALS_KEY")
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("CREDENTIALS_KEY is not valid hex: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("CREDENTIALS_KEY must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &credentialSealer{
		log: baseLog.With("service", "CredentialSealer"),
		key: key,
	}, nil
}

func (cs *credentialSealer) Seal(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("email and password are required: %w", apperrors.ErrInvalidArgument)
	}

	plaintext, err := json.Marshal(credentialPayload{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.NewX(cs.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (cs *credentialSealer) Open(sealed string) (string, string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", "", fmt.Errorf("sealed credentials are not valid base64: %w", err)
	}

	aead, err := chacha20poly1305.NewX(cs.key)
	if err != nil {
		return "", "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", "", fmt.Errorf("sealed credentials too short")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var payload credentialPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return "", "", fmt.Errorf("failed to decode credentials: %w", err)
	}
	return payload.Email, payload.Password, nil
}
