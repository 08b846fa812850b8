package forge

import (
	"testing"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
)

func TestFromGitHubPullRequest_MergeTriState(t *testing.T) {
	merged := FromGitHubPullRequest(&github.PullRequest{Merged: github.Ptr(true)})
	assert.Equal(t, MergeTrue, merged.Merged)
	assert.True(t, merged.IsMerged())

	unmerged := FromGitHubPullRequest(&github.PullRequest{Merged: github.Ptr(false)})
	assert.Equal(t, MergeFalse, unmerged.Merged)
	assert.False(t, unmerged.IsMerged())

	unknown := FromGitHubPullRequest(&github.PullRequest{})
	assert.Equal(t, MergeUnknown, unknown.Merged)
	assert.False(t, unknown.IsMerged())
}

func TestFromGitHubPullRequest_Assignees(t *testing.T) {
	pr := FromGitHubPullRequest(&github.PullRequest{
		Assignees: []*github.User{
			{Login: github.Ptr("assign1")},
			{Login: github.Ptr("joe-reviewer")},
		},
	})
	assert.Len(t, pr.Assignees, 2)
	assert.Equal(t, "assign1", pr.Assignees[0].Login)
	assert.Equal(t, "joe-reviewer", pr.Assignees[1].Login)
}

func TestFromGitHubRepository_HostFromHTMLURL(t *testing.T) {
	repo := FromGitHubRepository(&github.Repository{
		Name:    github.Ptr("some-repo"),
		HTMLURL: github.Ptr("https://github.com/some-user/some-repo"),
		Owner:   &github.User{Login: github.Ptr("some-user")},
	})
	assert.Equal(t, "github.com", repo.Host)
	assert.Equal(t, "some-user", repo.Owner)
	assert.Equal(t, "some-repo", repo.Name)
}

func TestFromGitHubLabel(t *testing.T) {
	l := FromGitHubLabel(&github.Label{Name: github.Ptr("backport-1.0")})
	assert.Equal(t, "backport-1.0", l.Name)
}

func TestFromGitHubReview_UnrecognizedStatePassesThrough(t *testing.T) {
	r := FromGitHubReview(&github.PullRequestReview{State: github.Ptr("dismissed")})
	assert.Equal(t, ReviewState("dismissed"), r.State)
}
