package adapter

import "context"

// AdminNotifier pushes short operational alerts (e.g. completed purchases) to staff.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, text string) error
}
