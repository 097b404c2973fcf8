package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecipient struct {
	Destination string `json:"destination" validate:"required"`
}

type testRequest struct {
	AccountName string          `json:"accountName" validate:"required,max=8"`
	Priority    int             `json:"priority,omitempty" validate:"gte=0,lte=10"`
	Internal    string          `json:"-" validate:"max=2"`
	Recipients  []testRecipient `json:"recipients" validate:"dive"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	t.Run("valid request", func(t *testing.T) {
		assert.NoError(t, v.Validate(&testRequest{AccountName: "sales"}))
	})

	t.Run("messages use json names", func(t *testing.T) {
		err := v.Validate(&testRequest{
			Priority:   11,
			Recipients: []testRecipient{{Destination: "15550001"}, {}},
		})
		require.Error(t, err)

		assert.Equal(t,
			"accountName is required; priority must be less than or equal to 10; recipients[1].destination is required",
			err.Error())
		assert.NotContains(t, err.Error(), "testRequest")
		assert.NotContains(t, err.Error(), "AccountName")
	})

	t.Run("field errors stay reachable", func(t *testing.T) {
		err := v.Validate(&testRequest{AccountName: "far too long"})

		var fieldErrs validator.ValidationErrors
		require.True(t, errors.As(err, &fieldErrs))
		require.Len(t, fieldErrs, 1)
		assert.Equal(t, "max", fieldErrs[0].Tag())
		assert.Equal(t, "accountName must be at most 8", err.Error())
	})
}
