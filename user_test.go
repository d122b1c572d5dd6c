package authrelay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_String(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "anonymous",
			user: User{},
			want: "<User: anonymous (not authenticated)>",
		},
		{
			name: "staged credentials, not yet authenticated",
			user: User{Username: "user-admin", Password: "secret"},
			want: "<User: user-admin (not authenticated)>",
		},
		{
			name: "authenticated",
			user: User{Username: "user-admin", Password: "secret", IsAuthenticated: true},
			want: "<User: user-admin (authenticated)>",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.user.String())
			assert.NotContains(t, tc.user.String(), "secret")
		})
	}
}
