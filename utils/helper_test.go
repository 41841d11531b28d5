package utils_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "ops+tag@example.com"}
	invalid := []string{"", "nope", "a@", "@b.co"}
	for _, e := range valid {
		if !utils.IsValidEmail(e) {
			t.Errorf("%q should be valid", e)
		}
	}
	for _, e := range invalid {
		if utils.IsValidEmail(e) {
			t.Errorf("%q should be invalid", e)
		}
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	// empty is allowed; phone fields are optional everywhere
	if err := utils.ValidatePhoneNumber("", "IN"); err != nil {
		t.Errorf("empty phone should pass: %v", err)
	}
	if err := utils.ValidatePhoneNumber("+919876543210", "IN"); err != nil {
		t.Errorf("valid Indian mobile should pass: %v", err)
	}
	if err := utils.ValidatePhoneNumber("12", "IN"); err == nil {
		t.Error("junk phone should fail")
	}
}

func TestParseDecimal(t *testing.T) {
	v, err := utils.ParseDecimal("12.34")
	if err != nil {
		t.Fatal(err)
	}
	if v.StringFixed(2) != "12.34" {
		t.Errorf("parsed %s, want 12.34", v)
	}
	if _, err := utils.ParseDecimal("money"); err == nil {
		t.Error("non-numeric input should fail")
	}
}
