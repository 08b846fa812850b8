// Package handler implements the Event Handler: the core dispatcher that
// classifies a parsed forge payload and drives the Messenger, Forge Client,
// and Backport Queue Producer.
package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattermost/mattermost/server/public/model"

	"github.com/octobridge/bridge/internal/backport"
	"github.com/octobridge/bridge/internal/forge"
	"github.com/octobridge/bridge/internal/forgeclient"
	"github.com/octobridge/bridge/internal/logging"
	"github.com/octobridge/bridge/internal/messenger"
	"github.com/octobridge/bridge/internal/registry"
)

// Handler owns one event payload for the duration of a single call. One
// Handler is built at startup and shared by every delivery; it keeps no
// per-event state between calls. Repos, Users, Messenger, Forge, and Backport
// are shared, concurrent-safe collaborators injected at construction time.
type Handler struct {
	Repos     *registry.RepoRegistry
	Users     *registry.UserRegistry
	Messenger messenger.Messenger
	Forge     forgeclient.Client
	Backport  backport.Producer
	BotLogin  string
	Log       logging.Logger
}

// New builds a Handler from its collaborators.
func New(repos *registry.RepoRegistry, users *registry.UserRegistry, msgr messenger.Messenger, forgeClient forgeclient.Client, backportProducer backport.Producer, botLogin string, log logging.Logger) *Handler {
	return &Handler{
		Repos:     repos,
		Users:     users,
		Messenger: msgr,
		Forge:     forgeClient,
		Backport:  backportProducer,
		BotLogin:  botLogin,
		Log:       log,
	}
}

// Handle classifies payload by kind and dispatches to the per-kind handler.
func (h *Handler) Handle(ctx context.Context, payload forge.Payload) Result {
	switch payload.Kind {
	case forge.KindPing:
		return ok("ping")
	case forge.KindCommitComment:
		return h.handleCommitComment(ctx, payload)
	case forge.KindIssueComment:
		return h.handleIssueComment(ctx, payload)
	case forge.KindPRReviewComment:
		return h.handlePRReviewComment(ctx, payload)
	case forge.KindPRReview:
		return h.handlePRReview(ctx, payload)
	case forge.KindPullRequest:
		return h.handlePullRequest(ctx, payload)
	case forge.KindPush:
		return h.handlePush(ctx, payload)
	default:
		return ok(string(payload.Kind))
	}
}

// directHandles computes the direct-message recipient set: normalize every
// party's login to a delivery handle, deduplicate by that handle, drop the
// bot identity, and drop any login explicitly excluded by the caller (the
// event's own author, for comment/review events).
func (h *Handler) directHandles(parties []forge.User, excludeLogins ...string) []string {
	exclude := make(map[string]bool, len(excludeLogins))
	for _, login := range excludeLogins {
		if login != "" {
			exclude[login] = true
		}
	}

	seen := make(map[string]bool)
	var handles []string
	for _, u := range parties {
		if u.Login == "" || exclude[u.Login] || u.Login == h.BotLogin {
			continue
		}
		handle := h.Users.ResolveDirectHandle(u.Login)
		if seen[handle] {
			continue
		}
		seen[handle] = true
		handles = append(handles, handle)
	}
	return handles
}

// send posts baseText (plus the review-channel repo tag, for the channel
// recipient) and attachments to every recipient in the computed audience.
func (h *Handler) send(ctx context.Context, repo forge.Repo, directHandles []string, baseText string, attachments []*model.SlackAttachment) {
	channel := ""
	if ch, configured := h.Repos.Lookup(repo.Host, repo.FullName()); configured {
		channel = ch
	}

	channelText := baseText
	if channel != "" {
		channelText = appendRepoTag(baseText, repo)
	}

	audience := messenger.Audience{Channel: channel, DirectHandles: directHandles}
	if err := h.Messenger.Send(ctx, audience, channelText, baseText, attachments); err != nil {
		h.Log.Warn("handler: messenger send failed", "error", err.Error())
	}
}

func (h *Handler) sendPR(ctx context.Context, repo forge.Repo, handles []string, text string, pr *forge.PullRequest) {
	h.send(ctx, repo, handles, text, []*model.SlackAttachment{prSummaryAttachment(pr)})
}

// --- commit_comment ---

func (h *Handler) handleCommitComment(ctx context.Context, p forge.Payload) Result {
	const tag = "commit_comment"

	c := p.Comment
	if c == nil {
		return ok(tag)
	}
	if c.Body == "" || c.Author.Login == h.BotLogin {
		return ok(tag)
	}

	sha := shortSHA(c.CommitID)
	label := c.Path
	if label == "" {
		label = sha
	}
	commitURL := fmt.Sprintf("%s/commit/%s", p.Repository.HTMLURL, c.CommitID)
	text := fmt.Sprintf("Comment on %q (<%s|%s>) ", label, commitURL, sha)

	h.send(ctx, p.Repository, nil, text, []*model.SlackAttachment{
		commentAttachment(h.Users.ResolveDisplayName(c.Author.Login), c.Body, c.HTMLURL),
	})
	return ok(tag)
}

// --- issue_comment ---

func (h *Handler) handleIssueComment(ctx context.Context, p forge.Payload) Result {
	const tag = "issue_comment"

	c, issue := p.Comment, p.Issue
	if c == nil || issue == nil {
		return ok(tag)
	}
	if c.Body == "" || c.Author.Login == h.BotLogin {
		return ok(tag)
	}

	text := "Comment on " + quotedLink(issue.HTMLURL, issue.Title)
	parties := append([]forge.User{issue.Author}, issue.Assignees...)
	handles := h.directHandles(parties, c.Author.Login)

	h.send(ctx, p.Repository, handles, text, []*model.SlackAttachment{
		commentAttachment(h.Users.ResolveDisplayName(c.Author.Login), c.Body, c.HTMLURL),
	})
	return ok(tag)
}

// --- pull_request_review_comment ---

func (h *Handler) handlePRReviewComment(ctx context.Context, p forge.Payload) Result {
	const tag = "pr_review_comment"

	c, pr := p.Comment, p.PullRequest
	if c == nil || pr == nil {
		return ok(tag)
	}
	if c.Body == "" || c.Author.Login == h.BotLogin {
		return ok(tag)
	}

	text := "Comment on " + quotedLink(pr.HTMLURL, pr.Title)
	handles := h.directHandles(prParties(pr), c.Author.Login)

	h.send(ctx, p.Repository, handles, text, []*model.SlackAttachment{
		commentAttachment(h.Users.ResolveDisplayName(c.Author.Login), c.Body, c.HTMLURL),
	})
	return ok(tag)
}

// --- pull_request_review ---

func (h *Handler) handlePRReview(ctx context.Context, p forge.Payload) Result {
	const tag = "pr_review"

	pr, review := p.PullRequest, p.Review
	if pr == nil || review == nil {
		return ok(tag)
	}

	switch review.State {
	case forge.ReviewCommented:
		if review.Body == "" || review.Author.Login == h.BotLogin {
			return ok(tag + " [comment]")
		}
		text := "Comment on " + quotedLink(pr.HTMLURL, pr.Title)
		handles := h.directHandles(prParties(pr), review.Author.Login)
		h.send(ctx, p.Repository, handles, text, []*model.SlackAttachment{
			commentAttachment(h.Users.ResolveDisplayName(review.Author.Login), review.Body, review.HTMLURL),
		})
		return ok(tag + " [comment]")

	case forge.ReviewApproved:
		text := fmt.Sprintf("%s approved PR %s", h.Users.ResolveDisplayName(review.Author.Login), quotedLink(pr.HTMLURL, pr.Title))
		handles := h.directHandles(prParties(pr), review.Author.Login)
		h.send(ctx, p.Repository, handles, text, []*model.SlackAttachment{{
			Title:     "Review: Approved",
			TitleLink: review.HTMLURL,
			Color:     "good",
			Text:      review.Body,
		}})
		return ok(tag)

	case forge.ReviewChangesRequested:
		text := fmt.Sprintf("%s requested changes to PR %s", h.Users.ResolveDisplayName(review.Author.Login), quotedLink(pr.HTMLURL, pr.Title))
		handles := h.directHandles(prParties(pr), review.Author.Login)
		h.send(ctx, p.Repository, handles, text, []*model.SlackAttachment{{
			Title:     "Review: Changes Requested",
			TitleLink: review.HTMLURL,
			Color:     "danger",
			Text:      review.Body,
		}})
		return ok(tag)

	default:
		return ok(tag)
	}
}

// --- pull_request ---

func (h *Handler) handlePullRequest(ctx context.Context, p forge.Payload) Result {
	const tag = "pr"

	pr := p.PullRequest
	if pr == nil {
		return ok(tag)
	}

	switch p.Action {
	case "opened", "ready_for_review":
		text := fmt.Sprintf("Pull Request opened by %s", h.Users.ResolveDisplayName(pr.Author.Login))
		handles := h.directHandles(pr.Assignees, pr.Author.Login)
		h.sendPR(ctx, p.Repository, handles, text, pr)
		return ok(tag)

	case "closed":
		if pr.IsMerged() {
			return h.handleMergedPR(ctx, p, pr, false)
		}
		handles := h.directHandles(prParties(pr))
		h.sendPR(ctx, p.Repository, handles, "Pull Request closed", pr)
		return ok(tag)

	case "reopened":
		handles := h.directHandles(prParties(pr))
		h.sendPR(ctx, p.Repository, handles, "Pull Request reopened", pr)
		return ok(tag)

	case "assigned":
		names := make([]string, 0, len(pr.Assignees))
		for _, a := range pr.Assignees {
			names = append(names, h.Users.ResolveDisplayName(a.Login))
		}
		text := fmt.Sprintf("Pull Request assigned to %s", strings.Join(names, ", "))
		handles := h.directHandles(prParties(pr))
		h.sendPR(ctx, p.Repository, handles, text, pr)
		return ok(tag)

	case "unassigned":
		handles := h.directHandles(prParties(pr))
		h.sendPR(ctx, p.Repository, handles, "Pull Request unassigned", pr)
		return ok(tag)

	case "labeled":
		if !pr.IsMerged() {
			return ok(tag)
		}
		return h.handleMergedPR(ctx, p, pr, true)

	default:
		return ok(tag)
	}
}

// handleMergedPR emits the merged-PR notification and, depending on how the
// merge was observed, schedules backport jobs either from the full label
// set (closed) or from the single label the event carried (retroactively
// labeled after merge).
func (h *Handler) handleMergedPR(ctx context.Context, p forge.Payload, pr *forge.PullRequest, retroactiveLabel bool) Result {
	handles := h.directHandles(prParties(pr))
	h.sendPR(ctx, p.Repository, handles, "Pull Request merged", pr)

	if retroactiveLabel {
		if p.Label != nil {
			if suffix, matched := backportSuffix(p.Label.Name); matched {
				h.enqueueBackport(ctx, pr, p.Repository, suffix)
			}
		}
		return ok("pr")
	}

	labels, err := h.Forge.GetPRLabels(ctx, p.Repository.Owner, p.Repository.Name, pr.Number)
	if err != nil {
		h.send(ctx, p.Repository, h.directHandles([]forge.User{pr.Author}), "Error getting Pull Request labels", []*model.SlackAttachment{{
			Color: "danger",
			Text:  err.Error(),
		}})
		return ok("pr")
	}

	for _, l := range labels {
		if suffix, matched := backportSuffix(l.Name); matched {
			h.enqueueBackport(ctx, pr, p.Repository, suffix)
		}
	}
	return ok("pr")
}

// enqueueBackport schedules one merge job. The bot identity and the
// triggering sender are never suppressed here: backport scheduling is PR
// lifecycle bookkeeping, not chat fan-out.
func (h *Handler) enqueueBackport(ctx context.Context, pr *forge.PullRequest, repo forge.Repo, suffix string) {
	msg := forge.MergeJobMessage{
		SourcePR:     *pr,
		Repo:         repo,
		TargetBranch: "release/" + suffix,
	}
	if err := h.Backport.Send(ctx, msg); err != nil {
		h.Log.Warn("handler: failed to enqueue backport job",
			"pr", pr.Number, "target_branch", msg.TargetBranch, "error", err.Error())
	}
}

// --- push ---

func (h *Handler) handlePush(ctx context.Context, p forge.Payload) Result {
	const tag = "push"

	if p.RefName == "" || p.BeforeSHA == "" || p.AfterSHA == "" {
		return ok(tag)
	}

	prs, err := h.Forge.ListOpenPRs(ctx, p.Repository.Owner, p.Repository.Name, p.AfterSHA)
	if err != nil {
		return ok(tag)
	}
	if len(prs) == 0 && !p.Forced {
		return ok(tag)
	}

	branchShort := strings.TrimPrefix(p.RefName, "refs/heads/")
	pusher := h.Users.ResolveDisplayName(p.Sender.Login)
	repoConfigured := h.Repos.IsConfigured(p.Repository.Host, p.Repository.FullName())

	for i := range prs {
		pr := prs[i]

		text := fmt.Sprintf("%s pushed %d commit(s) to branch %s", pusher, len(p.Commits), branchShort)
		attachments := make([]*model.SlackAttachment, 0, 1+len(p.Commits))
		attachments = append(attachments, prSummaryAttachment(&pr))
		for _, c := range p.Commits {
			attachments = append(attachments, &model.SlackAttachment{
				Text: fmt.Sprintf("<%s|%s>: %s", c.URL, shortSHA(c.ID), firstLine(c.Message)),
			})
		}

		handles := h.directHandles(prParties(&pr), p.Sender.Login)
		h.send(ctx, p.Repository, handles, text, attachments)

		if p.Forced && repoConfigured && !strings.HasPrefix(pr.Title, "WIP") {
			body := forcePushComment(p.BeforeSHA, p.AfterSHA, p.CompareURL)
			if err := h.Forge.CommentPR(ctx, p.Repository.Owner, p.Repository.Name, pr.Number, body); err != nil {
				h.Log.Warn("handler: failed to post force-push comment", "pr", pr.Number, "error", err.Error())
			}
		}
	}

	return ok(tag)
}

// forcePushComment renders the force-push notice posted back to the forge.
// The compare link segment is omitted entirely when no compare URL was given.
func forcePushComment(before, after, compareURL string) string {
	text := fmt.Sprintf("Force-push detected: before: %s, after: %s", shortSHA(before), shortSHA(after))
	if compareURL != "" {
		text += fmt.Sprintf(" ([compare](%s))", compareURL)
	}
	return text
}
