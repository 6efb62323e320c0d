package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes the booking summary to the application log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.log.Info("booking confirmation",
		zap.String("booking_id", msg.BookingID),
		zap.String("customer_email", msg.CustomerEmail),
		zap.String("date", msg.Date),
		zap.String("time", msg.Time),
		zap.String("summary", msg.Summary()),
	)
	return nil
}
