package auth

import "testing"

func TestGenerateAndValidateSeekerToken(t *testing.T) {
	signed, claims, err := GenerateAnonymousToken(RoleSeeker, "")
	if err != nil {
		t.Fatalf("GenerateAnonymousToken failed: %v", err)
	}
	if claims.SubjectID == "" {
		t.Error("Expected a minted subject ID")
	}

	parsed, err := ValidateToken(signed)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if parsed.SubjectID != claims.SubjectID {
		t.Errorf("Subject mismatch: %s != %s", parsed.SubjectID, claims.SubjectID)
	}
	if parsed.Role != RoleSeeker {
		t.Errorf("Expected seeker role, got %s", parsed.Role)
	}
	if parsed.ListenerID != "" {
		t.Errorf("Seeker token must not carry a listener ID, got %s", parsed.ListenerID)
	}
}

func TestListenerTokenCarriesListenerID(t *testing.T) {
	signed, _, err := GenerateAnonymousToken(RoleListener, "l2")
	if err != nil {
		t.Fatalf("GenerateAnonymousToken failed: %v", err)
	}
	parsed, err := ValidateToken(signed)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if parsed.Role != RoleListener || parsed.ListenerID != "l2" {
		t.Errorf("Expected listener token bound to l2, got role=%s listenerID=%s", parsed.Role, parsed.ListenerID)
	}
}

func TestTwoTokensGetDistinctSubjects(t *testing.T) {
	_, first, err := GenerateAnonymousToken(RoleSeeker, "")
	if err != nil {
		t.Fatalf("GenerateAnonymousToken failed: %v", err)
	}
	_, second, err := GenerateAnonymousToken(RoleSeeker, "")
	if err != nil {
		t.Fatalf("GenerateAnonymousToken failed: %v", err)
	}
	if first.SubjectID == second.SubjectID {
		t.Error("Anonymous subjects must be unique per token")
	}
}

func TestGenerateRejectsUnknownRole(t *testing.T) {
	if _, _, err := GenerateAnonymousToken("admin", ""); err == nil {
		t.Error("Expected an error for an unknown role")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("Expected an error for a malformed token")
	}
}
