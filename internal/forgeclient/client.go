// Package forgeclient wraps the subset of the GitHub API the Event Handler
// needs, grounded on the teacher's ghclient.Client: label fetch, open-PR
// lookup by head SHA, and posting a PR comment.
package forgeclient

import (
	"context"

	"github.com/google/go-github/v68/github"

	"github.com/octobridge/bridge/internal/forge"
)

// Client is the minimum forge contract the core requires.
type Client interface {
	// GetPRLabels fetches every label currently on a pull request.
	GetPRLabels(ctx context.Context, owner, repo string, prNumber int) ([]forge.Label, error)

	// ListOpenPRs returns every open pull request whose head SHA matches headSHA.
	ListOpenPRs(ctx context.Context, owner, repo, headSHA string) ([]forge.PullRequest, error)

	// CommentPR posts a comment on a pull request. body uses GitHub-flavored markdown.
	CommentPR(ctx context.Context, owner, repo string, prNumber int, body string) error
}

// clientImpl implements Client by delegating to go-github.
type clientImpl struct {
	gh *github.Client
}

// NewClient creates a GitHub API client authenticated with the given token.
func NewClient(token string) Client {
	return &clientImpl{gh: github.NewClient(nil).WithAuthToken(token)}
}

// NewClientWithGitHub builds a Client from an existing *github.Client. Used
// in tests to inject a client pointed at an httptest server.
func NewClientWithGitHub(gh *github.Client) Client {
	return &clientImpl{gh: gh}
}

func (c *clientImpl) GetPRLabels(ctx context.Context, owner, repo string, prNumber int) ([]forge.Label, error) {
	var all []forge.Label
	opts := &github.ListOptions{PerPage: 100}
	for {
		labels, resp, err := c.gh.Issues.ListLabelsByIssue(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, err
		}
		for _, l := range labels {
			all = append(all, forge.FromGitHubLabel(l))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (c *clientImpl) ListOpenPRs(ctx context.Context, owner, repo, headSHA string) ([]forge.PullRequest, error) {
	var matches []forge.PullRequest
	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, err
		}
		for _, pr := range prs {
			if pr.GetHead().GetSHA() == headSHA {
				matches = append(matches, forge.FromGitHubPullRequest(pr))
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return matches, nil
}

func (c *clientImpl) CommentPR(ctx context.Context, owner, repo string, prNumber int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, prNumber, &github.IssueComment{
		Body: github.Ptr(body),
	})
	return err
}
