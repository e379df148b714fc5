package pipeline

import (
	"testing"

	"github.com/matzehuels/spanstack/pkg/render"
	"github.com/matzehuels/spanstack/pkg/stack"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"csv", false},
		{"invalid", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "csv"}, nil); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"json", "invalid"}, nil); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil, nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}

	// Injected renderers extend the valid set
	renderers := map[string]render.Renderer{
		"svg": render.Func(func(l stack.Layout) ([]byte, error) { return nil, nil }),
	}
	if err := ValidateFormats([]string{"svg", "json"}, renderers); err != nil {
		t.Errorf("Injected format should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.MaxReportedErrors != DefaultMaxReportedErrors {
		t.Errorf("MaxReportedErrors = %d, want %d", opts.MaxReportedErrors, DefaultMaxReportedErrors)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error = %v", err)
	}
}

func TestOptionsRejectsUnknownFormat(t *testing.T) {
	opts := Options{Formats: []string{"png"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown format without renderer should fail")
	}
}

func TestValidationFailureError(t *testing.T) {
	one := &ValidationFailure{Total: 1}
	if one.Error() != "1 invalid row" {
		t.Errorf("Error() = %q", one.Error())
	}

	many := &ValidationFailure{Total: 42}
	if many.Error() != "42 invalid rows" {
		t.Errorf("Error() = %q", many.Error())
	}
}

func TestValidationFailureTruncated(t *testing.T) {
	vf := &ValidationFailure{Total: 5}
	if !vf.Truncated() {
		t.Error("capped failure should report truncation")
	}

	full := &ValidationFailure{Total: 0}
	if full.Truncated() {
		t.Error("uncapped failure should not report truncation")
	}
}
