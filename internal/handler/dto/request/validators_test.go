//go:build unit

package request_test

import (
	"testing"

	"tour-booking/internal/handler/dto/request"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, request.RegisterValidators(v))

	t.Run("payment_method", func(t *testing.T) {
		ok := request.AddPaymentRequest{Amount: 100, Method: "momo"}
		assert.NoError(t, v.Struct(ok))

		bad := request.AddPaymentRequest{Amount: 100, Method: "paypal"}
		err := v.Struct(bad)
		require.Error(t, err)

		fields := request.FieldErrors(err)
		require.Len(t, fields, 1)
		assert.Equal(t, "Method", fields[0].Field)
	})

	t.Run("booking_status", func(t *testing.T) {
		assert.NoError(t, v.Struct(request.UpdateStatusRequest{Status: "confirmed"}))
		assert.Error(t, v.Struct(request.UpdateStatusRequest{Status: "refunded"}))
		assert.Error(t, v.Struct(request.UpdateStatusRequest{}))
	})

	t.Run("non validation errors have no field detail", func(t *testing.T) {
		assert.Nil(t, request.FieldErrors(assert.AnError))
	})
}
