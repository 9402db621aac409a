package service

import (
	"time"

	"descontamina/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/m-mizutani/goerr/v2"
)

// ReferenceCodec maps a record identifier to the public report reference and back
type ReferenceCodec interface {
	Encode(id string) (string, error)
	Decode(ref string) (string, error)
}

// NewReferenceCodec returns the signed codec when a secret is set, the plain one otherwise
func NewReferenceCodec(secret string) ReferenceCodec {
	if secret == "" {
		return PlainReferenceCodec{}
	}
	return NewSignedReferenceCodec([]byte(secret))
}

// PlainReferenceCodec uses the record identifier as the reference
type PlainReferenceCodec struct{}

func (PlainReferenceCodec) Encode(id string) (string, error) {
	if id == "" {
		return "", goerr.Wrap(ErrInvalidReference, "empty record id")
	}
	return id, nil
}

func (PlainReferenceCodec) Decode(ref string) (string, error) {
	if ref == "" {
		return "", goerr.Wrap(ErrInvalidReference, "empty reference")
	}
	return ref, nil
}

// SignedReferenceCodec issues HS256 tokens carrying the record id as subject
type SignedReferenceCodec struct {
	secret []byte
	now    func() time.Time
}

func NewSignedReferenceCodec(secret []byte) *SignedReferenceCodec {
	return &SignedReferenceCodec{secret: secret, now: time.Now}
}

func (c *SignedReferenceCodec) Encode(id string) (string, error) {
	if id == "" {
		return "", goerr.Wrap(ErrInvalidReference, "empty record id")
	}
	claims := &model.ReportClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  id,
			IssuedAt: jwt.NewNumericDate(c.now()),
			// No expiry: report links are shared by email
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign report reference")
	}
	return signed, nil
}

func (c *SignedReferenceCodec) Decode(ref string) (string, error) {
	claims := &model.ReportClaims{}
	token, err := jwt.ParseWithClaims(ref, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", goerr.Wrap(ErrInvalidReference, "report reference rejected", goerr.V("cause", err))
	}
	if claims.Subject == "" {
		return "", goerr.Wrap(ErrInvalidReference, "report reference has no subject")
	}
	return claims.Subject, nil
}
