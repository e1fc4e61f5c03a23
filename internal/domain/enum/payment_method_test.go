package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want PaymentMethod
	}{
		{"Cash", PaymentMethodCash},
		{"card", PaymentMethodCard},
		{" UPI ", PaymentMethodUPI},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePaymentMethod(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePaymentMethod("cheque")
	assert.Error(t, err)
}

func TestPaymentMethod_UnmarshalRejectsUnknown(t *testing.T) {
	var m PaymentMethod
	assert.Error(t, json.Unmarshal([]byte(`"barter"`), &m))
	require.NoError(t, json.Unmarshal([]byte(`"upi"`), &m))
	assert.Equal(t, PaymentMethodUPI, m)
}

func TestBillStatus_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(BillStatusSubmitting)
	require.NoError(t, err)
	assert.Equal(t, `"Submitting"`, string(b))
}
