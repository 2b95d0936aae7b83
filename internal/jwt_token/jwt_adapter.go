package jwttoken

import (
	authmw "pulsemarket/pkg/platform/middleware/auth"
)

// JWTServiceAdapter bridges JWTService to the middleware's TokenValidator
// interface so the middleware package stays free of jwt library types.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &authmw.Claims{
		SubjectID: claims.Subject,
		Role:      claims.Role,
	}, nil
}
