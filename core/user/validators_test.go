package user

import (
	"testing"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name    string
		pwd     string
		attrs   []string
		wantErr []string // expected field error texts, in order
	}{
		{name: "valid", pwd: "s3cretito"},
		{name: "too short", pwd: "ab1", wantErr: []string{pwdMinLenText}},
		{name: "whitespace", pwd: "abc def1", wantErr: []string{pwdNoSpaceText}},
		{name: "all numeric", pwd: "12345678", wantErr: []string{pwdNotAllNumText}},
		{
			name:    "similar to email",
			pwd:     "maria.lopez",
			attrs:   []string{"María López", "maria.lopez@test.ec"},
			wantErr: []string{pwdAttrSimText},
		},
		{name: "dissimilar attrs pass", pwd: "s3cretito", attrs: []string{"María López", "maria.lopez@test.ec"}},
		{
			name:    "multiple failures",
			pwd:     "123",
			wantErr: []string{pwdMinLenText, pwdNotAllNumText},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePassword(tt.pwd, tt.attrs...)
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("validatePassword() error = %v", err)
				}
				return
			}

			vErr, ok := err.(*core.ValidationError)
			if !ok {
				t.Fatalf("validatePassword() error = %T, want *core.ValidationError", err)
			}
			if len(vErr.Fields) != len(tt.wantErr) {
				t.Fatalf("got %d field errors, want %d: %+v", len(vErr.Fields), len(tt.wantErr), vErr.Fields)
			}
			for i, want := range tt.wantErr {
				if vErr.Fields[i].Error != want {
					t.Errorf("field error %d = %q, want %q", i, vErr.Fields[i].Error, want)
				}
			}
		})
	}
}

func TestAllNumeric(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"", false},
		{"123456", true},
		{"123a456", false},
	}
	for _, tt := range tests {
		if got := allNumeric(tt.s); got != tt.want {
			t.Errorf("allNumeric(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestUserRoleHelpers(t *testing.T) {
	if !(&User{Role: RoleStudent}).IsStudent() {
		t.Error("IsStudent() = false")
	}
	if !(&User{Role: RoleTeacher}).IsTeacher() {
		t.Error("IsTeacher() = false")
	}
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("IsAdmin() = false")
	}
	if (&User{Role: RoleStudent}).IsAdmin() {
		t.Error("student IsAdmin() = true")
	}
}
