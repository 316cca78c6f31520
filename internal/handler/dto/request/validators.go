package request

import (
	"errors"
	"strings"

	"tour-booking/internal/domain/booking"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RegisterValidators adds the booking enum tags to the gin binding engine.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("payment_method", validatePaymentMethod); err != nil {
		return err
	}
	return v.RegisterValidation("booking_status", validateBookingStatus)
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return booking.PaymentMethod(fl.Field().String()).IsValid()
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return booking.Status(fl.Field().String()).IsValid()
}

// FieldErrors flattens binding errors for the response detail. Non
// validation errors (malformed JSON) yield nil.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return out
}

func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "payment_method":
		return "must be one of bank_transfer, credit_card, cash, vnpay, momo"
	case "booking_status":
		return "must be one of pending, confirmed, completed, cancelled"
	case "min", "gt", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
