package booking

import (
	"fmt"
	"math"
	"time"
)

type RefundStatus string

const (
	RefundNone      RefundStatus = "none"
	RefundPending   RefundStatus = "pending"
	RefundCompleted RefundStatus = "completed"
)

// DaysUntil counts whole days from now to start, rounding partial days up.
func DaysUntil(start, now time.Time) int {
	return int(math.Ceil(start.Sub(now).Hours() / 24))
}

// RefundPercent maps days-until-tour onto the cancellation policy.
func RefundPercent(days int) int {
	switch {
	case days > 30:
		return 90
	case days >= 15:
		return 50
	case days >= 7:
		return 25
	default:
		return 0
	}
}

type Refund struct {
	Amount  int64
	Percent int
	Days    int
	Policy  string
}

func CalculateRefund(paid int64, start, now time.Time) Refund {
	days := DaysUntil(start, now)
	pct := RefundPercent(days)
	return Refund{
		Amount:  roundHalfUp(float64(paid) * float64(pct) / 100),
		Percent: pct,
		Days:    days,
		Policy:  fmt.Sprintf("%d days until tour", days),
	}
}
