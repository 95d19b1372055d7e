package commands

import (
	"bufio"
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fatih/color"

	"github.com/durfee/passwords/internal/accounts/http/dto"
	"github.com/durfee/passwords/internal/apiclient"
	"github.com/durfee/passwords/internal/crypto"
)

// ClientOptions carries the connection flags shared by all client commands.
// Empty string fields fall back to the configuration file's values.
type ClientOptions struct {
	ConfigPath           string
	Certificate          string
	Key                  string
	CertificateAuthority string
	BaseURL              string
	Yes                  bool
	One                  bool
	NoColors             bool
}

// clientSession bundles the API client, the key material for envelope
// encryption, and the resolved configuration.
type clientSession struct {
	client     *apiclient.Client
	publicKey  *rsa.PublicKey
	privateKey *rsa.PrivateKey
	cfg        *apiclient.Config
	io         IOTuple
}

// newClientSession loads the configuration, applies flag overrides, and
// builds the mTLS client plus the local encryption keys.
func newClientSession(opts ClientOptions, io IOTuple) (*clientSession, error) {
	cfg, err := apiclient.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.Certificate != "" {
		cfg.Certificate = apiclient.ResolveHome(opts.Certificate)
	}
	if opts.Key != "" {
		cfg.Key = apiclient.ResolveHome(opts.Key)
	}
	if opts.CertificateAuthority != "" {
		cfg.CertificateAuthority = apiclient.ResolveHome(opts.CertificateAuthority)
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Yes {
		cfg.Yes = true
	}
	if opts.One {
		cfg.One = true
	}
	if opts.NoColors {
		disabled := false
		cfg.Colors = &disabled
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	color.NoColor = !cfg.ColorsEnabled()

	client, err := apiclient.NewMTLS(cfg.BaseURL, cfg.Certificate, cfg.Key, cfg.CertificateAuthority)
	if err != nil {
		return nil, err
	}

	publicKey, err := crypto.LoadPublicKey(cfg.Certificate)
	if err != nil {
		return nil, err
	}

	privateKey, err := crypto.LoadPrivateKey(cfg.Key)
	if err != nil {
		return nil, err
	}

	return &clientSession{
		client:     client,
		publicKey:  publicKey,
		privateKey: privateKey,
		cfg:        cfg,
		io:         io,
	}, nil
}

// encryptPassword seals a plaintext password into a fresh envelope.
func (s *clientSession) encryptPassword(password string) (*crypto.Envelope, error) {
	sessionKey, err := crypto.NewSessionKey()
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(sessionKey)

	return crypto.Seal(s.publicKey, sessionKey, []byte(password))
}

// decryptPassword opens an account's password envelope with the private key.
func (s *clientSession) decryptPassword(account dto.AccountResponse) (string, error) {
	plaintext, err := crypto.Open(s.privateKey, &crypto.Envelope{
		Ciphertext: account.Password,
		Key:        account.Key,
		IV:         account.IV,
	})
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// display prints accounts with decrypted passwords. With the one option set,
// only the first result's password is printed, bare, for shell piping.
func (s *clientSession) display(accounts []dto.AccountResponse) error {
	if s.cfg.One {
		if len(accounts) > 0 {
			password, err := s.decryptPassword(accounts[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(s.io.Writer, password)
		}
		return nil
	}

	label := color.New(color.FgCyan)
	for _, account := range accounts {
		password, err := s.decryptPassword(account)
		if err != nil {
			return err
		}

		fmt.Fprintf(s.io.Writer, "%s %s\n", label.Sprint("domainName:"), account.DomainName)
		fmt.Fprintf(s.io.Writer, "%s   %s\n", label.Sprint("username:"), account.Username)
		fmt.Fprintf(s.io.Writer, "%s   %s\n", label.Sprint("password:"), password)
		fmt.Fprintf(s.io.Writer, "%s  %s\n", label.Sprint("createdAt:"), account.CreatedAt)
		fmt.Fprintf(s.io.Writer, "%s %s\n", label.Sprint("modifiedAt:"), account.ModifiedAt)
		fmt.Fprintf(s.io.Writer, "%s %s\n", label.Sprint("accessedAt:"), account.AccessedAt)
		fmt.Fprintln(s.io.Writer)
	}

	return nil
}

// confirm shows the matched accounts and asks the question. The yes option
// skips the prompt. Empty answers count as yes, matching the prompt's default.
func (s *clientSession) confirm(question string, accounts []dto.AccountResponse) (bool, error) {
	if s.cfg.Yes {
		return true, nil
	}

	if err := s.display(accounts); err != nil {
		return false, err
	}

	fmt.Fprintf(s.io.Writer, "%s [Y/n] ", question)

	scanner := bufio.NewScanner(s.io.Reader)
	if !scanner.Scan() {
		return false, scanner.Err()
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes" || answer == "", nil
}

// RunClientList lists the accounts matching the query and displays them with
// decrypted passwords.
func RunClientList(ctx context.Context, opts ClientOptions, query url.Values, io IOTuple) error {
	session, err := newClientSession(opts, io)
	if err != nil {
		return err
	}

	accounts, err := session.client.List(ctx, query)
	if err != nil {
		return err
	}

	return session.display(accounts)
}

// RunClientCreate encrypts the password locally and creates an account.
func RunClientCreate(
	ctx context.Context,
	opts ClientOptions,
	domainName, username, password string,
	io IOTuple,
) error {
	session, err := newClientSession(opts, io)
	if err != nil {
		return err
	}

	envelope, err := session.encryptPassword(password)
	if err != nil {
		return err
	}

	account, err := session.client.Insert(ctx, dto.CreateAccountRequest{
		Key:        envelope.Key,
		IV:         envelope.IV,
		DomainName: domainName,
		Username:   username,
		Password:   envelope.Ciphertext,
	})
	if err != nil {
		return err
	}

	return session.display([]dto.AccountResponse{*account})
}

// RunClientSetPassword sets a new password on every account matching the
// query, after confirmation. Each account gets its own fresh envelope.
func RunClientSetPassword(
	ctx context.Context,
	opts ClientOptions,
	password string,
	query url.Values,
	io IOTuple,
) error {
	session, err := newClientSession(opts, io)
	if err != nil {
		return err
	}

	accounts, err := session.client.List(ctx, query)
	if err != nil {
		return err
	}

	ok, err := session.confirm("Set the password for all of these records?", accounts)
	if err != nil || !ok {
		return err
	}

	var updateErrors []error
	updated := make([]dto.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		envelope, err := session.encryptPassword(password)
		if err != nil {
			updateErrors = append(updateErrors, err)
			continue
		}

		result, err := session.client.SetPassword(ctx, account.ID, dto.SetPasswordRequest{
			Key:      envelope.Key,
			IV:       envelope.IV,
			Password: envelope.Ciphertext,
		})
		if err != nil {
			updateErrors = append(updateErrors, err)
			continue
		}
		updated = append(updated, *result)
	}

	if err := session.display(updated); err != nil {
		updateErrors = append(updateErrors, err)
	}

	return errors.Join(updateErrors...)
}

// RunClientSetUsername sets a new username on every account matching the
// query, after confirmation.
func RunClientSetUsername(
	ctx context.Context,
	opts ClientOptions,
	username string,
	query url.Values,
	io IOTuple,
) error {
	session, err := newClientSession(opts, io)
	if err != nil {
		return err
	}

	accounts, err := session.client.List(ctx, query)
	if err != nil {
		return err
	}

	ok, err := session.confirm("Set the username for all of these records?", accounts)
	if err != nil || !ok {
		return err
	}

	var updateErrors []error
	updated := make([]dto.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		result, err := session.client.SetUsername(ctx, account.ID, dto.SetUsernameRequest{
			Username: username,
		})
		if err != nil {
			updateErrors = append(updateErrors, err)
			continue
		}
		updated = append(updated, *result)
	}

	if err := session.display(updated); err != nil {
		updateErrors = append(updateErrors, err)
	}

	return errors.Join(updateErrors...)
}

// RunClientDelete deletes every account matching the query, after confirmation.
func RunClientDelete(ctx context.Context, opts ClientOptions, query url.Values, io IOTuple) error {
	session, err := newClientSession(opts, io)
	if err != nil {
		return err
	}

	accounts, err := session.client.List(ctx, query)
	if err != nil {
		return err
	}

	ok, err := session.confirm("Delete all of these records?", accounts)
	if err != nil || !ok {
		return err
	}

	var deleteErrors []error
	for _, account := range accounts {
		if err := session.client.Delete(ctx, account.ID); err != nil {
			deleteErrors = append(deleteErrors, err)
		}
	}

	return errors.Join(deleteErrors...)
}
