package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwksServer(t *testing.T, kid string, pub *rsa.PublicKey, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(JWKS{Keys: []JSONWebKey{{
			Kid: kid,
			Kty: "RSA",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}}})
	}))
}

func TestProvider_VerifiesRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var hits atomic.Int32
	srv := jwksServer(t, "k1", &key.PublicKey, &hits)
	defer srv.Close()
	p := NewProvider(srv.URL)

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()})
	tok.Header["kid"] = "k1"
	signed, err := tok.SignedString(key)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		parsed, err := jwt.Parse(signed, p.KeyFunc)
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
	}
	assert.Equal(t, int32(1), hits.Load(), "keys are cached")
}

func TestProvider_UnknownKid(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var hits atomic.Int32
	srv := jwksServer(t, "k1", &key.PublicKey, &hits)
	defer srv.Close()
	p := NewProvider(srv.URL)

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{})
	tok.Header["kid"] = "other"
	signed, err := tok.SignedString(key)
	require.NoError(t, err)

	_, err = jwt.Parse(signed, p.KeyFunc)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Refresh is throttled
	_, _ = jwt.Parse(signed, p.KeyFunc)
	assert.Equal(t, int32(1), hits.Load())
}

func TestProvider_RejectsHMAC(t *testing.T) {
	p := NewProvider("http://127.0.0.1:0")
	signed, err := jwt.New(jwt.SigningMethodHS256).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = jwt.Parse(signed, p.KeyFunc)
	assert.Error(t, err)
}
