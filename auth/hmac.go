// Package auth implements the syncml:auth-MAC HMAC-MD5 authentication
// scheme used to bind each SyncML request/response pair to its session
// nonce.
package auth

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/base64"
	"strings"
)

// Credentials is the username/password pair the MAC is computed with.
type Credentials struct {
	Username string
	Password string
}

// ComputeMAC implements the SyncML HMAC-MD5 construction:
//
//	cred = md5(username + ":" + password)
//	K    = base64(cred)
//	H    = base64(md5(body))
//	M    = nonce + ":" + H
//	mac  = base64(HMAC_MD5(K, M))
func ComputeMAC(creds Credentials, nonce, body []byte) string {
	credHash := md5.Sum([]byte(creds.Username + ":" + creds.Password))
	key := base64.StdEncoding.EncodeToString(credHash[:])

	bodyHash := md5.Sum(body)
	bodyB64 := base64.StdEncoding.EncodeToString(bodyHash[:])

	message := append(append(append([]byte{}, nonce...), ':'), bodyB64...)

	mac := hmac.New(md5.New, []byte(key))
	mac.Write(message)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// MismatchError reports that a client-presented MAC did not match the
// value computed from the configured credentials and server nonce.
type MismatchError struct {
	Username string
}

func (e *MismatchError) Error() string {
	return "auth: MAC mismatch for user " + e.Username
}

// HMACHeader is the parsed x-syncml-hmac transport header: comma
// separated key=value pairs, recognized keys algorithm/username/mac.
type HMACHeader struct {
	Algorithm string
	Username  string
	MAC       string
}

// ParseHMACHeader parses the x-syncml-hmac header value.
func ParseHMACHeader(header string) HMACHeader {
	var h HMACHeader
	if header == "" {
		return h
	}
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "algorithm":
			h.Algorithm = value
		case "username":
			h.Username = value
		case "mac":
			h.MAC = value
		}
	}
	return h
}

// Verifier holds the server's configured default credentials and checks
// a client-presented MAC against them.
type Verifier struct {
	DefaultUsername string
	DefaultPassword string
}

// Verify reports whether mac matches the MAC computed over body with
// nonce, for the given presented username (falling back to the
// configured default). Soft-accept tolerance is applied by the caller,
// not here; Verify only reports the true/false comparison.
func (v Verifier) Verify(mac, presentedUsername string, nonce, body []byte) (bool, error) {
	username := presentedUsername
	if username == "" {
		username = v.DefaultUsername
	}
	expected := ComputeMAC(Credentials{Username: username, Password: v.DefaultPassword}, nonce, body)
	if expected == mac {
		return true, nil
	}
	return false, &MismatchError{Username: username}
}

// ComputeResponseMAC computes the server's own MAC for the response
// header, using the server's credentials and the client's next-nonce.
func ComputeResponseMAC(server Credentials, clientNextNonce, body []byte) string {
	return ComputeMAC(server, clientNextNonce, body)
}
