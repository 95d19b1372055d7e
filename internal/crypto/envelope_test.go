package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/durfee/passwords/internal/errors"
)

func generateKeyPair(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return privateKey
}

func TestNewSessionKey(t *testing.T) {
	first, err := NewSessionKey()
	require.NoError(t, err)
	assert.Len(t, first, SessionKeySize)

	second, err := NewSessionKey()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSealAndOpen_RoundTrip(t *testing.T) {
	privateKey := generateKeyPair(t)

	plaintexts := [][]byte{
		[]byte("hunter2"),
		[]byte(""),
		[]byte("exactly sixteen!"), // one full block, forces a full padding block
		[]byte("correct horse battery staple with some extra length to span blocks"),
	}

	for _, plaintext := range plaintexts {
		sessionKey, err := NewSessionKey()
		require.NoError(t, err)

		envelope, err := Seal(&privateKey.PublicKey, sessionKey, plaintext)
		require.NoError(t, err)

		opened, err := Open(privateKey, envelope)
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	}
}

func TestSeal_OutputsAreBase64(t *testing.T) {
	privateKey := generateKeyPair(t)
	sessionKey, err := NewSessionKey()
	require.NoError(t, err)

	envelope, err := Seal(&privateKey.PublicKey, sessionKey, []byte("hunter2"))
	require.NoError(t, err)

	iv, err := base64.StdEncoding.DecodeString(envelope.IV)
	require.NoError(t, err)
	assert.Len(t, iv, 16)

	_, err = base64.StdEncoding.DecodeString(envelope.Ciphertext)
	assert.NoError(t, err)
	_, err = base64.StdEncoding.DecodeString(envelope.Key)
	assert.NoError(t, err)
}

func TestSeal_UniquePerCall(t *testing.T) {
	privateKey := generateKeyPair(t)
	sessionKey, err := NewSessionKey()
	require.NoError(t, err)

	first, err := Seal(&privateKey.PublicKey, sessionKey, []byte("hunter2"))
	require.NoError(t, err)
	second, err := Seal(&privateKey.PublicKey, sessionKey, []byte("hunter2"))
	require.NoError(t, err)

	assert.NotEqual(t, first.IV, second.IV)
	assert.NotEqual(t, first.Ciphertext, second.Ciphertext)
}

func TestOpen_TamperedCiphertext(t *testing.T) {
	privateKey := generateKeyPair(t)
	sessionKey, err := NewSessionKey()
	require.NoError(t, err)

	envelope, err := Seal(&privateKey.PublicKey, sessionKey, []byte("hunter2"))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	require.NoError(t, err)
	raw[0] ^= 0xFF
	envelope.Ciphertext = base64.StdEncoding.EncodeToString(raw)

	opened, err := Open(privateKey, envelope)
	assert.Nil(t, opened)
	assert.ErrorIs(t, err, apperrors.ErrCrypto)
}

func TestOpen_TamperedIV(t *testing.T) {
	privateKey := generateKeyPair(t)
	sessionKey, err := NewSessionKey()
	require.NoError(t, err)

	envelope, err := Seal(&privateKey.PublicKey, sessionKey, []byte("hunter2"))
	require.NoError(t, err)

	iv, err := base64.StdEncoding.DecodeString(envelope.IV)
	require.NoError(t, err)
	iv[0] ^= 0xFF
	envelope.IV = base64.StdEncoding.EncodeToString(iv)

	opened, err := Open(privateKey, envelope)
	assert.Nil(t, opened)
	assert.ErrorIs(t, err, apperrors.ErrCrypto)
}

func TestOpen_WrongPrivateKey(t *testing.T) {
	privateKey := generateKeyPair(t)
	otherKey := generateKeyPair(t)

	sessionKey, err := NewSessionKey()
	require.NoError(t, err)

	envelope, err := Seal(&privateKey.PublicKey, sessionKey, []byte("hunter2"))
	require.NoError(t, err)

	opened, err := Open(otherKey, envelope)
	assert.Nil(t, opened)
	assert.ErrorIs(t, err, apperrors.ErrCrypto)
}

func TestOpen_MalformedFields(t *testing.T) {
	privateKey := generateKeyPair(t)

	for _, envelope := range []*Envelope{
		{Ciphertext: "not base64!", Key: "AAAA", IV: "AAAA"},
		{Ciphertext: "AAAA", Key: "not base64!", IV: "AAAA"},
		{Ciphertext: "", Key: "", IV: ""},
	} {
		opened, err := Open(privateKey, envelope)
		assert.Nil(t, opened)
		assert.ErrorIs(t, err, apperrors.ErrCrypto)
	}
}

func TestOpenWithSessionKey_InvalidKeySize(t *testing.T) {
	opened, err := OpenWithSessionKey([]byte("short"), &Envelope{})
	assert.Nil(t, opened)
	assert.ErrorIs(t, err, apperrors.ErrCrypto)
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
}

func writePEM(t *testing.T, name, blockType string, der []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadPrivateKey_PKCS1(t *testing.T) {
	privateKey := generateKeyPair(t)
	path := writePEM(t, "key.pem", "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(privateKey))

	loaded, err := LoadPrivateKey(path)
	require.NoError(t, err)
	assert.True(t, privateKey.Equal(loaded))
}

func TestLoadPrivateKey_PKCS8(t *testing.T) {
	privateKey := generateKeyPair(t)
	der, err := x509.MarshalPKCS8PrivateKey(privateKey)
	require.NoError(t, err)
	path := writePEM(t, "key.pem", "PRIVATE KEY", der)

	loaded, err := LoadPrivateKey(path)
	require.NoError(t, err)
	assert.True(t, privateKey.Equal(loaded))
}

func TestLoadPublicKey_PKIX(t *testing.T) {
	privateKey := generateKeyPair(t)
	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	path := writePEM(t, "pub.pem", "PUBLIC KEY", der)

	loaded, err := LoadPublicKey(path)
	require.NoError(t, err)
	assert.True(t, privateKey.PublicKey.Equal(loaded))
}

func TestLoadPublicKey_MissingFile(t *testing.T) {
	loaded, err := LoadPublicKey(filepath.Join(t.TempDir(), "missing.pem"))
	assert.Nil(t, loaded)
	assert.Error(t, err)
}

func TestLoadPrivateKey_NotPEM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pem")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	loaded, err := LoadPrivateKey(path)
	assert.Nil(t, loaded)
	assert.ErrorIs(t, err, apperrors.ErrCrypto)
}
