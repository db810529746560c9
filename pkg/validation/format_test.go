package validation

import (
	"strings"
	"testing"

	"github.com/iwvelando/claim-settlement/pkg/constants"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"Pretty", constants.OutputFormatPretty, false},
		{"CSV", constants.OutputFormatCSV, false},
		{"JSON", constants.OutputFormatJSON, false},
		{"Empty", "", true},
		{"Uppercase", "CSV", true},
		{"Unknown", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateOutputFormat(%q) expected error", tt.format)
				}
				if !strings.Contains(err.Error(), tt.format) {
					t.Errorf("error should mention the rejected format, got %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateOutputFormat(%q) error = %v", tt.format, err)
			}
		})
	}
}
