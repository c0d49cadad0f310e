package worker

import (
	"github.com/helpmate/helpdesk/internal/service"
)

// StartNotificationWorker registers notification handlers on the event
// dispatcher. Delivery is synchronous with event publication.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
