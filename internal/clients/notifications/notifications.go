package notifications

import "github.com/dbobbgit/room-of-requirement/internal/models"

// Notifier announces collection events to the household.
type Notifier interface {
	NotifyMediaAdded(record *models.MediaRecord)
	Test() error
}
