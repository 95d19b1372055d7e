// Package crypto implements the envelope encryption scheme used for stored
// passwords.
//
// Each password is encrypted under a fresh random 32-byte session key. The
// session key never reaches the server in usable form: it is wrapped with the
// recipient's RSA public key, and only a holder of the matching private key
// can unwrap it. The server stores ciphertext, wrapped key, and iv as opaque
// base64 strings.
//
// The symmetric layer is AES-256-CBC with PKCS#7 padding, hardened with an
// encrypt-then-MAC HMAC-SHA256 tag over iv and ciphertext. Encryption and MAC
// keys are derived from the session key with HKDF-SHA256, so the two concerns
// never share key material.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/hkdf"

	apperrors "github.com/durfee/passwords/internal/errors"
)

const (
	// SessionKeySize is the size in bytes of the random session key.
	SessionKeySize = 32

	ivSize  = aes.BlockSize
	macSize = sha256.Size
)

// HKDF info strings separating the encryption and MAC key derivations.
var (
	encKeyInfo = []byte("envelope-encryption-key")
	macKeyInfo = []byte("envelope-mac-key")
)

// Envelope is the sealed form of a plaintext: the ciphertext carries an
// appended MAC tag, and all fields are base64 encoded for transport and
// storage.
type Envelope struct {
	// Ciphertext is the AES-256-CBC output with the HMAC-SHA256 tag appended.
	Ciphertext string
	// Key is the session key wrapped with RSA-OAEP.
	Key string
	// IV is the random initialization vector for this envelope.
	IV string
}

// NewSessionKey generates a random 32-byte session key.
func NewSessionKey() ([]byte, error) {
	key := make([]byte, SessionKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "failed to generate session key")
	}
	return key, nil
}

// deriveKeys expands the session key into independent encryption and MAC keys.
func deriveKeys(sessionKey []byte) (encKey, macKey []byte, err error) {
	if len(sessionKey) != SessionKeySize {
		return nil, nil, apperrors.Wrap(apperrors.ErrCrypto, "invalid session key size")
	}

	encKey = make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, sessionKey, nil, encKeyInfo), encKey); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCrypto, "key derivation failed")
	}

	macKey = make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, sessionKey, nil, macKeyInfo), macKey); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCrypto, "key derivation failed")
	}

	return encKey, macKey, nil
}

// Seal encrypts the plaintext under the session key and wraps the session key
// with the recipient's RSA public key. Error messages never include plaintext
// or key material.
func Seal(publicKey *rsa.PublicKey, sessionKey, plaintext []byte) (*Envelope, error) {
	encKey, macKey, err := deriveKeys(sessionKey)
	if err != nil {
		return nil, err
	}
	defer Zero(encKey)
	defer Zero(macKey)

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "failed to create cipher")
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "failed to generate iv")
	}

	padded := padPKCS7(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	ciphertext = mac.Sum(ciphertext)

	wrappedKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, sessionKey, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "failed to wrap session key")
	}

	return &Envelope{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Key:        base64.StdEncoding.EncodeToString(wrappedKey),
		IV:         base64.StdEncoding.EncodeToString(iv),
	}, nil
}

// Open unwraps the session key with the RSA private key, verifies the MAC,
// and decrypts the ciphertext. Tampering with any field fails verification
// before decryption; the specific cause is not disclosed.
func Open(privateKey *rsa.PrivateKey, envelope *Envelope) ([]byte, error) {
	wrappedKey, err := base64.StdEncoding.DecodeString(envelope.Key)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "malformed envelope")
	}

	sessionKey, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, privateKey, wrappedKey, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "failed to unwrap session key")
	}
	defer Zero(sessionKey)

	return OpenWithSessionKey(sessionKey, envelope)
}

// OpenWithSessionKey verifies and decrypts an envelope with an already
// unwrapped session key.
func OpenWithSessionKey(sessionKey []byte, envelope *Envelope) ([]byte, error) {
	encKey, macKey, err := deriveKeys(sessionKey)
	if err != nil {
		return nil, err
	}
	defer Zero(encKey)
	defer Zero(macKey)

	iv, err := base64.StdEncoding.DecodeString(envelope.IV)
	if err != nil || len(iv) != ivSize {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "malformed envelope")
	}

	taggedCiphertext, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	if err != nil || len(taggedCiphertext) < macSize {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "malformed envelope")
	}

	ciphertext := taggedCiphertext[:len(taggedCiphertext)-macSize]
	tag := taggedCiphertext[len(taggedCiphertext)-macSize:]

	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "verification failed")
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "malformed envelope")
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "failed to create cipher")
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := unpadPKCS7(padded)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// padPKCS7 appends PKCS#7 padding up to the AES block size.
func padPKCS7(data []byte) []byte {
	padding := aes.BlockSize - len(data)%aes.BlockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(padding)}, padding)...)
}

// unpadPKCS7 strips and validates PKCS#7 padding.
func unpadPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "malformed envelope")
	}

	padding := int(data[len(data)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(data) {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "malformed envelope")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, apperrors.Wrap(apperrors.ErrCrypto, "malformed envelope")
		}
	}

	return data[:len(data)-padding], nil
}

// Zero overwrites a byte slice to clear key material from memory.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
