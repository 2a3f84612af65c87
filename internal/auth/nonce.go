package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SendMessageAction scopes anti-forgery nonces to the chat relay endpoint.
const SendMessageAction = "bonsai_chatbot_send_message"

// NonceClaims tie an anti-forgery token to a single action.
type NonceClaims struct {
	Action string `json:"act"`
	jwt.RegisteredClaims
}

// NonceIssuer creates and verifies anonymous anti-forgery tokens.
// Nonces are reusable until they expire; they are not bound to a user.
type NonceIssuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewNonceIssuer(secret string, lifetime time.Duration) *NonceIssuer {
	return &NonceIssuer{secret: []byte(secret), lifetime: lifetime, now: time.Now}
}

// Issue returns a fresh nonce for action.
func (n *NonceIssuer) Issue(action string) (string, error) {
	now := n.now()
	claims := NonceClaims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(n.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(n.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing nonce")
	}
	return signed, nil
}

// Verify checks that nonce is a valid, unexpired token for action.
func (n *NonceIssuer) Verify(nonce, action string) error {
	if nonce == "" {
		return errors.Wrap(ErrInvalidToken, "missing nonce")
	}
	claims := &NonceClaims{}
	token, err := jwt.ParseWithClaims(nonce, claims, hmacKey(string(n.secret)),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(n.now),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidToken, err.Error())
	}
	if !token.Valid || claims.Action != action {
		return errors.Wrap(ErrInvalidToken, "nonce action mismatch")
	}
	return nil
}
