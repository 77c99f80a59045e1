package notifications

import (
	"fmt"
	"strings"

	"github.com/xconstruct/go-pushbullet"

	"github.com/dbobbgit/room-of-requirement/internal/models"
	"github.com/dbobbgit/room-of-requirement/internal/utils"
)

// PushbulletClient implements the Notifier interface for Pushbullet.
type PushbulletClient struct {
	apiKey string
	pb     *pushbullet.Client
	logger *utils.Logger
}

// NewPushbulletClient creates a new client for sending Pushbullet notifications.
func NewPushbulletClient(apiKey string, logger *utils.Logger) *PushbulletClient {
	pb := pushbullet.New(apiKey)
	return &PushbulletClient{
		apiKey: apiKey,
		pb:     pb,
		logger: logger,
	}
}

// sendPush sends a note to all of the user's devices.
func (c *PushbulletClient) sendPush(title, body string) error {
	// The first argument to PushNote is the device iden. Empty means all devices.
	return c.pb.PushNote("", title, body)
}

// NotifyMediaAdded announces a new collection item, naming who it was
// shared with when anyone was.
func (c *PushbulletClient) NotifyMediaAdded(record *models.MediaRecord) {
	title := fmt.Sprintf("Added to collection: %s", record.Title)
	body := fmt.Sprintf("%s added the %s %q (%d)", record.AddedBy.Name, record.Type, record.Title, record.Year)
	if len(record.SharedWith) > 0 {
		names := make([]string, 0, len(record.SharedWith))
		for _, u := range record.SharedWith {
			names = append(names, u.Name)
		}
		body += fmt.Sprintf(", shared with %s", strings.Join(names, ", "))
	}
	if err := c.sendPush(title, body); err != nil {
		c.logger.Error("Error sending Pushbullet notification:", err)
	}
}

// Test verifies the API key is valid by fetching user info.
func (c *PushbulletClient) Test() error {
	_, err := c.pb.Me()
	if err != nil {
		return fmt.Errorf("pushbullet authentication failed: %w", err)
	}
	return nil
}
