package handler

import (
	"fmt"
	"strings"

	"github.com/mattermost/mattermost/server/public/model"

	"github.com/octobridge/bridge/internal/forge"
)

// backportPrefix is the case-insensitive label prefix a backport label must
// match; the suffix after it is taken verbatim and becomes the release branch.
const backportPrefix = "backport-"

// shortSHA returns the first 7 characters of a commit identifier.
func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// firstLine returns the text up to (not including) the first newline.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// backportSuffix reports whether labelName matches backport-<suffix>
// case-insensitively on the prefix, and if so returns the suffix exactly as
// it appears on the label (case-preserving).
func backportSuffix(labelName string) (string, bool) {
	if len(labelName) <= len(backportPrefix) {
		return "", false
	}
	if !strings.EqualFold(labelName[:len(backportPrefix)], backportPrefix) {
		return "", false
	}
	return labelName[len(backportPrefix):], true
}

// repoTag is the link-form repo tag appended to review-channel text:
// "<repo-html-url|owner/name>".
func repoTag(repo forge.Repo) string {
	return fmt.Sprintf("<%s|%s>", repo.HTMLURL, repo.FullName())
}

// appendRepoTag appends the parenthesized repo tag to base text. Most event
// text has no trailing space, so a single space separates text from the
// tag; commit_comment's header text already ends in a space (per its exact
// literal format), so no second space is inserted in that case.
func appendRepoTag(text string, repo forge.Repo) string {
	tag := repoTag(repo)
	if strings.HasSuffix(text, " ") {
		return text + "(" + tag + ")"
	}
	return text + " (" + tag + ")"
}

// prSummaryAttachment is the base attachment shared by every pull_request
// and push-event message: title naming the PR, no body.
func prSummaryAttachment(pr *forge.PullRequest) *model.SlackAttachment {
	return &model.SlackAttachment{
		Title:     fmt.Sprintf("Pull Request #%d: %q", pr.Number, pr.Title),
		TitleLink: pr.HTMLURL,
	}
}

// quotedLink renders `"<url|label>"`, the shape used for every "Comment on
// ..." header text that links to an issue or PR.
func quotedLink(url, label string) string {
	return fmt.Sprintf("%q", fmt.Sprintf("<%s|%s>", url, label))
}

// commentAttachment is the single-attachment shape shared by commit_comment,
// issue_comment, pull_request_review_comment, and commented-state reviews.
// authorName is the already-resolved rendered name (display-name override
// or normalized login), not a raw forge login.
func commentAttachment(authorName, body, htmlURL string) *model.SlackAttachment {
	return &model.SlackAttachment{
		Text:      body,
		Title:     authorName + " said:",
		TitleLink: htmlURL,
	}
}

// prParties is the "interested parties" set for PR-lifecycle events that
// include the author: the PR's author plus its assignees.
func prParties(pr *forge.PullRequest) []forge.User {
	return append([]forge.User{pr.Author}, pr.Assignees...)
}
