package realtime

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notifier wraps Node for easy use in handlers. Publish failures are logged
// and returned; callers are free to ignore them.
type Notifier struct {
	node *Node
}

func NewNotifier(node *Node) *Notifier {
	return &Notifier{node: node}
}

func (n *Notifier) NotifyUser(userID uuid.UUID, eventType string, data interface{}) error {
	err := n.node.PublishToUser(userID, eventType, data)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"event":   eventType,
		}).WithError(err).Warn("Failed to publish event")
	}
	return err
}
