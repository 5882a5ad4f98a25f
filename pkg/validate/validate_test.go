package validate_test

import (
	"errors"
	"testing"

	"github.com/aussiebroadwan/cookieauth/pkg/validate"
	"github.com/stretchr/testify/require"
)

type form struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func reasons(t *testing.T, err error) []string {
	t.Helper()
	var verr *validate.Error
	require.True(t, errors.As(err, &verr), "want *validate.Error, got %v", err)

	out := make([]string, len(verr.Reasons))
	for i, r := range verr.Reasons {
		out[i] = r.String()
	}
	return out
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validate.Struct(form{Username: "alice", Email: "a@x.com", Password: "hunter2hunter2"}))
	})

	t.Run("reports every field", func(t *testing.T) {
		err := validate.Struct(form{})
		require.ElementsMatch(t, []string{
			"username is required",
			"email is required",
			"password is required",
		}, reasons(t, err))
	})

	t.Run("format and length", func(t *testing.T) {
		err := validate.Struct(form{Username: "al", Email: "not-an-email", Password: "short"})
		require.ElementsMatch(t, []string{
			"username is too short",
			"email is invalid",
			"password is too short",
		}, reasons(t, err))
	})

	t.Run("too long", func(t *testing.T) {
		long := make([]byte, 73)
		for i := range long {
			long[i] = 'a'
		}
		err := validate.Struct(form{Username: "alice", Email: "a@x.com", Password: string(long)})
		require.Equal(t, []string{"password is too long"}, reasons(t, err))
	})

	t.Run("error string", func(t *testing.T) {
		err := validate.Struct(form{Username: "alice", Password: "hunter2hunter2"})
		require.EqualError(t, err, "validation failed: email is required")
	})

	t.Run("non-struct", func(t *testing.T) {
		err := validate.Struct(42)
		require.Error(t, err)
		var verr *validate.Error
		require.False(t, errors.As(err, &verr))
	})
}
