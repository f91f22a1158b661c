package notifier

import (
	"context"
	"log"
	"time"
)

// Notifier delivers OTP codes out-of-band. Production wires an external
// email/SMS service behind this interface; the core never returns codes to
// callers unless the demo echo flag is set.
type Notifier interface {
	DeliverOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

// LogNotifier writes the delivery to the service log instead of sending it.
// Used in demo mode and tests.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) DeliverOTP(_ context.Context, email, code string, ttl time.Duration) error {
	log.Printf("OTP delivery | Recipient=%s | Code=%s | ExpiresIn=%s", email, code, ttl.String())
	return nil
}
