package gosms

import "testing"

func TestNormalizeSMS(t *testing.T) {
	got, err := NormalizeSMS("+52 55 1234 5678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+525512345678" {
		t.Errorf("expected +525512345678, got %s", got)
	}
}

func TestNormalizeSMSRejectsMissingPlus(t *testing.T) {
	if _, err := NormalizeSMS("5512345678"); err == nil {
		t.Error("expected error for number without +")
	}
}

func TestNormalizeSMSRejectsEmpty(t *testing.T) {
	if _, err := NormalizeSMS(""); err == nil {
		t.Error("expected error for empty number")
	}
}
