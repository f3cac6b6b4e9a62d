package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMACFixedValue(t *testing.T) {
	creds := Credentials{Username: "guest", Password: "guest"}
	nonce := make([]byte, 16)
	body := []byte("<SyncML/>")

	mac1 := ComputeMAC(creds, nonce, body)
	mac2 := ComputeMAC(creds, nonce, body)

	assert.NotEmpty(t, mac1)
	assert.Equal(t, mac1, mac2, "MAC computation must be deterministic")
}

func TestVerifyRoundTrip(t *testing.T) {
	v := Verifier{DefaultUsername: "guest", DefaultPassword: "guest"}
	nonce := make([]byte, 16)
	body := []byte("<SyncML/>")

	mac := ComputeMAC(Credentials{Username: "guest", Password: "guest"}, nonce, body)

	ok, err := v.Verify(mac, "guest", nonce, body)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRejectsPerturbedBody(t *testing.T) {
	v := Verifier{DefaultUsername: "guest", DefaultPassword: "guest"}
	nonce := make([]byte, 16)
	body := []byte("<SyncML/>")

	mac := ComputeMAC(Credentials{Username: "guest", Password: "guest"}, nonce, body)

	ok, err := v.Verify(mac, "guest", nonce, []byte("<SyncML>tampered</SyncML>"))
	require.Error(t, err)
	assert.False(t, ok)
	var mismatch *MismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestEmptyNonceIsWellDefined(t *testing.T) {
	mac := ComputeMAC(Credentials{Username: "guest", Password: "guest"}, []byte{}, []byte("<SyncML/>"))
	assert.NotEmpty(t, mac)

	mac2 := ComputeMAC(Credentials{Username: "guest", Password: "guest"}, nil, []byte("<SyncML/>"))
	assert.Equal(t, mac, mac2)
}

func TestParseHMACHeader(t *testing.T) {
	h := ParseHMACHeader("algorithm=MD5, username=guest, mac=abc123==")
	assert.Equal(t, "MD5", h.Algorithm)
	assert.Equal(t, "guest", h.Username)
	assert.Equal(t, "abc123==", h.MAC)
}

func TestParseHMACHeaderEmpty(t *testing.T) {
	h := ParseHMACHeader("")
	assert.Empty(t, h.Algorithm)
	assert.Empty(t, h.Username)
	assert.Empty(t, h.MAC)
}
