package sign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrSignExpired   = errors.New("sign expired")
	ErrSignInvalid   = errors.New("sign invalid")
	ErrSecretMissing = errors.New("signing secret missing")
)

// Signer issues and verifies the short-lived access credential a client
// presents when attaching to a room group. The token binds a user to a group
// and an expiry; nothing else is encoded.
type Signer struct {
	secret []byte
}

func New(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) Ready() bool {
	return len(s.secret) > 0
}

// Token signs (userID, groupID, expiry) and returns "expiry.mac".
func (s *Signer) Token(userID, groupID string, ttl time.Duration) (string, error) {
	if !s.Ready() {
		return "", ErrSecretMissing
	}

	expiry := time.Now().Add(ttl).Unix()
	mac := s.mac(userID, groupID, expiry)
	return fmt.Sprintf("%d.%s", expiry, mac), nil
}

// Verify checks that token was issued for this user and group and has not
// expired.
func (s *Signer) Verify(token, userID, groupID string) error {
	if !s.Ready() {
		return ErrSecretMissing
	}

	expiryPart, macPart, ok := strings.Cut(token, ".")
	if !ok {
		return ErrSignInvalid
	}

	expiry, err := strconv.ParseInt(expiryPart, 10, 64)
	if err != nil {
		return ErrSignInvalid
	}

	expected := s.mac(userID, groupID, expiry)
	if !hmac.Equal([]byte(expected), []byte(macPart)) {
		return ErrSignInvalid
	}

	if time.Now().Unix() > expiry {
		return ErrSignExpired
	}

	return nil
}

func (s *Signer) mac(userID, groupID string, expiry int64) string {
	h := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(h, "%s\n%s\n%d", userID, groupID, expiry)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
