package messenger

import (
	"context"
	"strings"
	"sync"

	"github.com/mattermost/mattermost/server/public/model"

	"github.com/octobridge/bridge/internal/logging"
)

// MattermostMessenger posts through a Mattermost server's REST API using
// model.Client4, the same client surface the teacher's plugin host provides
// internally. Outside the plugin host this package owns the client itself.
// Send is called from concurrent webhook deliveries, so it must be safe for
// concurrent use.
type MattermostMessenger struct {
	client    *model.Client4
	botUserID string
	log       logging.Logger

	// directChannelCacheMu guards directChannelCache, which is read and
	// written by postDirect on every concurrent webhook delivery.
	directChannelCacheMu sync.Mutex
	// directChannelCache avoids re-resolving the same DM channel on every
	// send within one process; Mattermost DM channel IDs are stable.
	directChannelCache map[string]string
}

// NewMattermostMessenger builds a Messenger backed by an authenticated
// model.Client4 and the bot's own user ID (used to open DM channels).
func NewMattermostMessenger(client *model.Client4, botUserID string, log logging.Logger) *MattermostMessenger {
	return &MattermostMessenger{
		client:             client,
		botUserID:          botUserID,
		log:                log,
		directChannelCache: make(map[string]string),
	}
}

func (m *MattermostMessenger) Send(ctx context.Context, audience Audience, channelText, directText string, attachments []*model.SlackAttachment) error {
	if audience.Channel != "" {
		m.postToChannelName(ctx, audience.Channel, channelText, attachments)
	}
	for _, handle := range audience.DirectHandles {
		m.postDirect(ctx, handle, directText, attachments)
	}
	return nil
}

func (m *MattermostMessenger) postToChannelName(ctx context.Context, channelName, text string, attachments []*model.SlackAttachment) {
	channel, _, err := m.client.GetChannelByNameForTeamName(ctx, "", channelName, "")
	if err != nil {
		m.log.Warn("messenger: failed to resolve review channel", "channel", channelName, "error", err.Error())
		return
	}
	m.post(ctx, channel.Id, text, attachments)
}

func (m *MattermostMessenger) postDirect(ctx context.Context, handle, text string, attachments []*model.SlackAttachment) {
	username := strings.TrimPrefix(handle, "@")

	m.directChannelCacheMu.Lock()
	channelID, ok := m.directChannelCache[username]
	m.directChannelCacheMu.Unlock()

	if !ok {
		user, _, err := m.client.GetUserByUsername(ctx, username, "")
		if err != nil {
			m.log.Warn("messenger: failed to resolve direct recipient", "handle", handle, "error", err.Error())
			return
		}
		channel, _, err := m.client.CreateDirectChannel(ctx, m.botUserID, user.Id)
		if err != nil {
			m.log.Warn("messenger: failed to open direct channel", "handle", handle, "error", err.Error())
			return
		}
		channelID = channel.Id

		m.directChannelCacheMu.Lock()
		m.directChannelCache[username] = channelID
		m.directChannelCacheMu.Unlock()
	}

	m.post(ctx, channelID, text, attachments)
}

func (m *MattermostMessenger) post(ctx context.Context, channelID, text string, attachments []*model.SlackAttachment) {
	post := &model.Post{
		ChannelId: channelID,
		Message:   text,
	}
	if len(attachments) > 0 {
		model.ParseSlackAttachment(post, attachments)
	}

	if _, _, err := m.client.CreatePost(ctx, post); err != nil {
		m.log.Warn("messenger: failed to post message", "channel_id", channelID, "error", err.Error())
	}
}
