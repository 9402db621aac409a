package model

import "github.com/golang-jwt/jwt/v5"

// ReportClaims are JWT claims of a signed report reference.
// The record identifier travels in the standard subject claim.
type ReportClaims struct {
	jwt.RegisteredClaims
}
