package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"charityhub/internal/domain"
)

// Identity is the verified result of a credential check. Downstream
// components only ever see this pair, never the raw credential.
type Identity struct {
	UserID string
	Role   domain.UserRole
}

type tokenClaims struct {
	Sub      string `json:"sub"`
	Role     string `json:"role"`
	Exp      int64  `json:"exp"`
	Issuer   string `json:"iss"`
	Audience string `json:"aud"`
}

const (
	tokenIssuer   = "charityhub"
	tokenAudience = "charityhub-clients"
)

// Issue signs a time-bounded bearer credential for the given user and role.
func Issue(secret, userID string, role domain.UserRole, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("issue token: empty secret")
	}
	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	headerJSON, _ := json.Marshal(header)
	payloadJSON, _ := json.Marshal(tokenClaims{
		Sub:      userID,
		Role:     string(role),
		Exp:      time.Now().Add(ttl).Unix(),
		Issuer:   tokenIssuer,
		Audience: tokenAudience,
	})
	data := base64.RawURLEncoding.EncodeToString(headerJSON) + "." + base64.RawURLEncoding.EncodeToString(payloadJSON)
	return data + "." + sign(secret, data), nil
}

// Verify checks the credential and returns the identity it asserts.
// Verification fails closed: any malformed, expired or signature-mismatched
// credential yields domain.ErrUnauthorized, never a partial identity.
func Verify(secret, credential string) (Identity, error) {
	parts := strings.Split(credential, ".")
	if len(parts) != 3 {
		return Identity{}, domain.ErrUnauthorized
	}
	expected := sign(secret, parts[0]+"."+parts[1])
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return Identity{}, domain.ErrUnauthorized
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Identity{}, domain.ErrUnauthorized
	}
	var claims tokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Identity{}, domain.ErrUnauthorized
	}
	if claims.Exp != 0 && time.Now().Unix() > claims.Exp {
		return Identity{}, domain.ErrUnauthorized
	}
	if claims.Sub == "" {
		return Identity{}, domain.ErrUnauthorized
	}
	role := domain.UserRole(claims.Role)
	if role != domain.UserRoleMember && role != domain.UserRoleAdmin {
		return Identity{}, domain.ErrUnauthorized
	}
	return Identity{UserID: claims.Sub, Role: role}, nil
}

func sign(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
