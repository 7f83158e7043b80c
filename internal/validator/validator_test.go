package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Phone   string `json:"phone" validate:"required,ngphone"`
	PIN     string `json:"pin" validate:"omitempty,pin"`
	Account string `json:"account_number" validate:"omitempty,accountno"`
	Amount  int64  `json:"amount" validate:"gt=0"`
}

func TestStructAcceptsValidRequest(t *testing.T) {
	err := Struct(sampleRequest{Phone: "08031234567", PIN: "1234", Account: "0123456789", Amount: 100})
	require.NoError(t, err)
	require.NoError(t, Struct(sampleRequest{Phone: "+2349051234567", Amount: 1}))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sampleRequest{Phone: "12345", PIN: "12", Amount: 0})
	require.Error(t, err)

	var fields Errors
	require.True(t, errors.As(err, &fields))
	got := map[string]string{}
	for _, fe := range fields {
		got[fe.Field] = fe.Rule
	}
	assert.Equal(t, map[string]string{"phone": "ngphone", "pin": "pin", "amount": "gt"}, got)
	assert.Contains(t, err.Error(), "phone failed ngphone")
}
