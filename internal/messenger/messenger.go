// Package messenger posts (text, attachments) bundles to a review channel
// and a set of direct handles, matching the teacher's SlackAttachment-based
// posting contract but built for a standalone service rather than a plugin.
package messenger

import (
	"context"

	"github.com/mattermost/mattermost/server/public/model"
)

// Audience is the union of recipients for one Send call. Channel is empty
// when the event's repo is unconfigured; DirectHandles holds every
// normalized "@handle" that should receive a direct message.
type Audience struct {
	Channel       string
	DirectHandles []string
}

// Messenger posts a message to every recipient in an Audience. The channel
// recipient receives channelText (base text plus repo tag); every direct
// recipient receives directText (base text, no repo tag). Attachments are
// identical for every recipient. Per-recipient failures are logged by the
// implementation and never surface to the caller: the forge will otherwise
// retry the webhook delivery and duplicate every notification.
type Messenger interface {
	Send(ctx context.Context, audience Audience, channelText, directText string, attachments []*model.SlackAttachment) error
}
