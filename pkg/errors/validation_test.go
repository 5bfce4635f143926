package errors

import (
	"testing"
)

func TestValidateIndex(t *testing.T) {
	tests := []struct {
		name    string
		i, n    int
		wantErr bool
	}{
		{"first", 0, 3, false},
		{"last", 2, 3, false},
		{"past end", 3, 3, true},
		{"negative", -1, 3, true},
		{"empty sequence", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIndex("figure", tt.i, tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIndex(%d, %d) error = %v, wantErr %v", tt.i, tt.n, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeIndexOutOfRange) {
				t.Errorf("ValidateIndex code = %v, want %v", GetCode(err), ErrCodeIndexOutOfRange)
			}
		})
	}
}

func TestValidateScrub(t *testing.T) {
	tests := []struct {
		name    string
		pos, n  int
		wantErr bool
	}{
		{"start", 0, 10, false},
		{"all layers", 10, 10, false},
		{"past all", 11, 10, true},
		{"negative", -1, 10, true},
		{"no layers", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScrub(tt.pos, tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScrub(%d, %d) error = %v, wantErr %v", tt.pos, tt.n, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "models/part.stl", false},
		{"absolute", "/home/user/part.stl", false},
		{"empty", "", true},
		{"null byte", "part\x00.stl", true},
		{"newline", "part\n.stl", true},
		{"too long", string(make([]byte, 5000)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateExtension(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"stl", "part.stl", false},
		{"upper case", "PART.STL", false},
		{"gcode", "out.gcode", false},
		{"wrong type", "part.obj", true},
		{"no extension", "part", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtension(tt.input, ".stl", ".gcode")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExtension(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
