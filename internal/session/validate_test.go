package session

import "testing"

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"demo@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"o'neil@example.org", true},
		{"no-at-sign.example.com", false},
		{"@example.com", false},
		{".lead@example.com", false},
		{"double..dot@example.com", false},
		{"user@localhost", false},
		{"user@example.c", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validEmail(tt.in); got != tt.want {
			t.Errorf("validEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidProvider(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Google", true},
		{"Apple", true},
		{"", false},
		{"git hub", false},
		{"a/b", false},
		{"averyveryveryveryverylongprovidername", false},
	}
	for _, tt := range tests {
		if got := validProvider(tt.in); got != tt.want {
			t.Errorf("validProvider(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCredentials_Method(t *testing.T) {
	if got := (Credentials{Identifier: "a@b.co"}).method(); got != MethodEmail {
		t.Errorf("expected email, got %s", got)
	}
	if got := (Credentials{Identifier: "5551234567"}).method(); got != MethodPhone {
		t.Errorf("expected phone, got %s", got)
	}
	if got := (Credentials{Method: MethodPhone, Identifier: "a@b.co"}).method(); got != MethodPhone {
		t.Errorf("explicit method should win, got %s", got)
	}
}
