package utils_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
)

func TestJwtGenerate_RoundTrip(t *testing.T) {
	token, err := utils.JwtGenerate(42, "ops@example.com", "Ops", true)
	if err != nil {
		t.Fatal(err)
	}

	validated, err := utils.JwtValidate(token)
	if err != nil || !validated.Valid {
		t.Fatalf("token should validate: %v", err)
	}

	claims, ok := validated.Claims.(*utils.JwtCustomClaim)
	if !ok {
		t.Fatal("claims have unexpected type")
	}
	if claims.ID != 42 || claims.Email != "ops@example.com" || !claims.IsStaff {
		t.Errorf("claims = %+v, want id=42 email=ops@example.com is_staff=true", claims)
	}
	if claims.TokenType != utils.TokenTypeAccess {
		t.Errorf("token_type = %s, want %s", claims.TokenType, utils.TokenTypeAccess)
	}
}

func TestJwtGenerateRefresh_TypeAndJti(t *testing.T) {
	token, jti, err := utils.JwtGenerateRefresh(42, "ops@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if jti == "" {
		t.Fatal("jti must not be empty")
	}

	validated, err := utils.JwtValidate(token)
	if err != nil || !validated.Valid {
		t.Fatalf("refresh token should validate: %v", err)
	}
	claims := validated.Claims.(*utils.JwtCustomClaim)
	if claims.TokenType != utils.TokenTypeRefresh {
		t.Errorf("token_type = %s, want %s", claims.TokenType, utils.TokenTypeRefresh)
	}
	if claims.Id != jti {
		t.Errorf("jti claim = %s, want %s", claims.Id, jti)
	}

	_, jti2, err := utils.JwtGenerateRefresh(42, "ops@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if jti == jti2 {
		t.Error("consecutive refresh tokens must carry distinct jtis")
	}
}

func TestJwtValidate_Garbage(t *testing.T) {
	if _, err := utils.JwtValidate("not-a-token"); err == nil {
		t.Error("garbage token should not validate")
	}
}
