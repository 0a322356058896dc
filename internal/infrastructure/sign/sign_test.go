package sign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSigner_RoundTrip(t *testing.T) {
	req := require.New(t)
	signer := New("secret")

	token, err := signer.Token("u1", "room1", time.Minute)
	req.NoError(err)
	req.NoError(signer.Verify(token, "u1", "room1"))
}

func TestSigner_RejectsWrongUserOrGroup(t *testing.T) {
	req := require.New(t)
	signer := New("secret")

	token, err := signer.Token("u1", "room1", time.Minute)
	req.NoError(err)

	req.ErrorIs(signer.Verify(token, "u2", "room1"), ErrSignInvalid)
	req.ErrorIs(signer.Verify(token, "u1", "room2"), ErrSignInvalid)
}

func TestSigner_RejectsTamperedToken(t *testing.T) {
	req := require.New(t)
	signer := New("secret")

	token, err := signer.Token("u1", "room1", time.Minute)
	req.NoError(err)

	req.ErrorIs(signer.Verify(token+"x", "u1", "room1"), ErrSignInvalid)
	req.ErrorIs(signer.Verify("garbage", "u1", "room1"), ErrSignInvalid)
	req.ErrorIs(signer.Verify("", "u1", "room1"), ErrSignInvalid)
}

func TestSigner_RejectsExpiredToken(t *testing.T) {
	req := require.New(t)
	signer := New("secret")

	token, err := signer.Token("u1", "room1", -time.Minute)
	req.NoError(err)

	req.ErrorIs(signer.Verify(token, "u1", "room1"), ErrSignExpired)
}

func TestSigner_RejectsForeignSecret(t *testing.T) {
	req := require.New(t)

	token, err := New("secret-a").Token("u1", "room1", time.Minute)
	req.NoError(err)

	req.ErrorIs(New("secret-b").Verify(token, "u1", "room1"), ErrSignInvalid)
}

func TestSigner_MissingSecret(t *testing.T) {
	req := require.New(t)
	signer := New("")

	req.False(signer.Ready())

	_, err := signer.Token("u1", "room1", time.Minute)
	req.ErrorIs(err, ErrSecretMissing)
	req.ErrorIs(signer.Verify("anything", "u1", "room1"), ErrSecretMissing)
}
