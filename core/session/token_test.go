package session

import (
	"testing"
	"time"
)

func TestNewClaims(t *testing.T) {
	fixed := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = time.Now }()

	usr := User{Email: "asha@kisan.test", Role: RoleTeacher, Permissions: []string{"view-dashboard"}}

	claims := newClaims(usr, tokenTypeAccess, 30*time.Minute)
	if claims.Subject != usr.Email {
		t.Errorf("Subject = %q, want %q", claims.Subject, usr.Email)
	}
	if claims.Role != RoleTeacher || claims.TokenType != tokenTypeAccess {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.IssuedAt != fixed.Unix() {
		t.Errorf("IssuedAt = %d, want %d", claims.IssuedAt, fixed.Unix())
	}
	if claims.OrigIssuedAt != fixed.Unix() {
		t.Errorf("OrigIssuedAt = %d, want %d", claims.OrigIssuedAt, fixed.Unix())
	}
	if claims.ExpiresAt != fixed.Add(30*time.Minute).Unix() {
		t.Errorf("ExpiresAt = %d", claims.ExpiresAt)
	}

	// oriat is carried through on rotation
	rotated := newClaims(usr, tokenTypeAccess, 30*time.Minute, 42)
	if rotated.OrigIssuedAt != 42 {
		t.Errorf("OrigIssuedAt = %d, want 42", rotated.OrigIssuedAt)
	}

	// claims are distinct per call even within one clock tick
	if claims.Id == rotated.Id {
		t.Error("two claims generated at the same instant share an Id")
	}
}

func TestGenerateParseToken(t *testing.T) {
	usr := User{Email: "kiran@kisan.test", Role: RoleFarmer, Permissions: []string{"view-dashboard"}}

	token, err := generateToken(newClaims(usr, tokenTypeRefresh, time.Hour))
	if err != nil {
		t.Fatalf("generateToken() failed: %v", err)
	}

	claims, err := parseClaims(token)
	if err != nil {
		t.Fatalf("parseClaims() failed: %v", err)
	}
	if claims.Subject != usr.Email || claims.Role != RoleFarmer || claims.TokenType != tokenTypeRefresh {
		t.Errorf("round-tripped claims: %+v", claims)
	}
}

func TestParseClaims_expiredTokenStillParses(t *testing.T) {
	// stored tokens are assumed valid indefinitely; expiry never blocks parsing
	usr := User{Email: "kiran@kisan.test", Role: RoleFarmer}
	token, err := generateToken(newClaims(usr, tokenTypeAccess, -time.Hour))
	if err != nil {
		t.Fatalf("generateToken() failed: %v", err)
	}
	if _, err := parseClaims(token); err != nil {
		t.Errorf("parseClaims() rejected an expired token: %v", err)
	}
}

func TestParseClaims_garbage(t *testing.T) {
	if _, err := parseClaims("definitely-not-a-token"); err == nil {
		t.Error("parseClaims() accepted garbage")
	}
}
