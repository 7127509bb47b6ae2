package session

import (
	"errors"
	"testing"
)

func TestValidateUserID_RejectsEmptyString(t *testing.T) {
	if _, err := ValidateUserID("", false); !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("ValidateUserID(\"\") error = %v, want ErrInvalidUserID", err)
	}
}

func TestValidateUserID_RejectsNonString(t *testing.T) {
	if _, err := ValidateUserID(123, false); !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("ValidateUserID(123) error = %v, want ErrInvalidUserID", err)
	}
	if _, err := ValidateUserID(nil, false); !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("ValidateUserID(nil) error = %v, want ErrInvalidUserID", err)
	}
}

func TestValidateUserID_RejectsPlaceholderMarkers(t *testing.T) {
	for _, userID := range []string{"test_user_placeholder", "TEST_USER", "dummy_user_42", "user_test_request"} {
		if _, err := ValidateUserID(userID, false); !errors.Is(err, ErrInvalidUserID) {
			t.Errorf("ValidateUserID(%q) error = %v, want ErrInvalidUserID", userID, err)
		}
	}
}

func TestValidateUserID_AllowsPlaceholderInTestMode(t *testing.T) {
	got, err := ValidateUserID("test_user_placeholder", true)
	if err != nil {
		t.Fatalf("ValidateUserID() with allowPlaceholder=true error = %v", err)
	}
	if got != "test_user_placeholder" {
		t.Errorf("got = %q, want test_user_placeholder", got)
	}
}

func TestValidateUserID_AcceptsOrdinaryID(t *testing.T) {
	got, err := ValidateUserID("enterprise_user_001", false)
	if err != nil {
		t.Fatalf("ValidateUserID() error = %v", err)
	}
	if got != "enterprise_user_001" {
		t.Errorf("got = %q, want enterprise_user_001", got)
	}
}

func TestNewUserContext_GeneratesDistinctCorrelationIDs(t *testing.T) {
	a, err := NewUserContext("user-1", nil, false)
	if err != nil {
		t.Fatalf("NewUserContext() error = %v", err)
	}
	b, err := NewUserContext("user-1", nil, false)
	if err != nil {
		t.Fatalf("NewUserContext() error = %v", err)
	}
	if a.RunID == b.RunID {
		t.Error("expected two contexts for the same user to get distinct RunIDs")
	}
	if a.RequestID == b.RequestID {
		t.Error("expected two contexts for the same user to get distinct RequestIDs")
	}
	if a.ThreadID != b.ThreadID {
		t.Errorf("ThreadID = %q and %q, want both derived deterministically from user_id", a.ThreadID, b.ThreadID)
	}
}

func TestNewUserContext_RejectsInvalidUserID(t *testing.T) {
	if _, err := NewUserContext("", nil, false); !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("NewUserContext(\"\") error = %v, want ErrInvalidUserID", err)
	}
}
