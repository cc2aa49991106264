package models

import "testing"

func TestValidateListName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid", input: "Groceries", wantErr: nil},
		{name: "valid with separators", input: "Q3 road-map_v2", wantErr: nil},
		{name: "too short", input: "ab", wantErr: ErrListNameLength},
		{name: "too long", input: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", wantErr: ErrListNameLength},
		{name: "invalid characters", input: "board!@#", wantErr: ErrListNameCharset},
		{name: "empty", input: "", wantErr: ErrListNameLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateListName(tt.input); err != tt.wantErr {
				t.Fatalf("ValidateListName(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
