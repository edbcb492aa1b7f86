package vivasync

import "fmt"

// Level grades a notification for display.
type Level int

const (
	// LevelInfo is a passive notice (e.g. a deferred background sync).
	LevelInfo Level = iota
	// LevelCelebrate marks goal-progress moments worth a toast.
	LevelCelebrate
	// LevelError surfaces a failed user-initiated operation.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelCelebrate:
		return "celebrate"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is one user-facing message emitted by the SDK. Message is
// always safe to render verbatim.
type Notification struct {
	Level     Level
	Kind      ErrorKind // classification of the triggering error, if any
	Threshold int       // percent, set for water-goal notifications
	Message   string
}

// Notifier receives notifications. Implementations must not block; the
// SDK may call them from background goroutines.
type Notifier func(Notification)

func thresholdMessage(threshold int, consumedL, targetL float64) string {
	if threshold >= 100 {
		return fmt.Sprintf("Daily water goal reached: %.2f L. Well done!", consumedL)
	}
	return fmt.Sprintf("You're at %d%% of your %.2f L water goal. Keep going!", threshold, targetL)
}
