package model

import (
	"testing"

	"github.com/samber/mo"
)

func TestUserUpdate_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		update UserUpdate
		want   bool
	}{
		{name: "zero value", update: UserUpdate{}, want: true},
		{name: "explicit none", update: UserUpdate{Email: mo.None[string]()}, want: true},
		{name: "email set", update: UserUpdate{Email: mo.Some("a@example.com")}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.update.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}
