package forge

import "github.com/google/go-github/v68/github"

// This file translates go-github's generated types — used both as the
// decoded shape of inbound webhook bodies and as the return shape of the
// REST client — into the domain model above, following the idiom the
// pack's gh-app-cherry-pick-poc webhook handler uses: decode straight into
// go-github's own event structs rather than hand-rolled payload structs.

// FromGitHubUser converts a go-github user to a domain User. A nil user
// converts to the zero value, matching "sender absent" being a non-fault.
func FromGitHubUser(u *github.User) User {
	return User{Login: u.GetLogin()}
}

// FromGitHubRepository converts a go-github repository to a domain Repo.
func FromGitHubRepository(r *github.Repository) Repo {
	owner := ""
	if r.GetOwner() != nil {
		owner = r.GetOwner().GetLogin()
	}
	return Repo{
		Host:    hostFromHTMLURL(r.GetHTMLURL()),
		Owner:   owner,
		Name:    r.GetName(),
		HTMLURL: r.GetHTMLURL(),
	}
}

// FromGitHubPushRepository converts a push event's (slightly different)
// repository shape to a domain Repo.
func FromGitHubPushRepository(r *github.PushEventRepository) Repo {
	owner := ""
	if r.GetOwner() != nil {
		owner = r.GetOwner().GetLogin()
	}
	return Repo{
		Host:    hostFromHTMLURL(r.GetHTMLURL()),
		Owner:   owner,
		Name:    r.GetName(),
		HTMLURL: r.GetHTMLURL(),
	}
}

func hostFromHTMLURL(htmlURL string) string {
	repo, err := ParseRepoURL(htmlURL)
	if err != nil {
		return ""
	}
	return repo.Host
}

// FromGitHubBranch converts a pull request head/base branch reference.
func FromGitHubBranch(b *github.PullRequestBranch) BranchRef {
	return BranchRef{
		RefName: b.GetRef(),
		SHA:     b.GetSHA(),
		User:    FromGitHubUser(b.GetUser()),
		Repo:    FromGitHubRepository(b.GetRepo()),
	}
}

// FromGitHubPullRequest converts a go-github pull request to the domain
// model. Merged is tri-state because the caller may not have asked GitHub
// for merge status (e.g. push-event-derived PR lookups never see it).
func FromGitHubPullRequest(pr *github.PullRequest) PullRequest {
	merged := MergeUnknown
	if pr.Merged != nil {
		if pr.GetMerged() {
			merged = MergeTrue
		} else {
			merged = MergeFalse
		}
	}

	assignees := make([]User, 0, len(pr.Assignees))
	for _, a := range pr.Assignees {
		assignees = append(assignees, FromGitHubUser(a))
	}

	return PullRequest{
		Title:          pr.GetTitle(),
		Number:         pr.GetNumber(),
		HTMLURL:        pr.GetHTMLURL(),
		State:          pr.GetState(),
		Author:         FromGitHubUser(pr.GetUser()),
		Merged:         merged,
		MergeCommitSHA: pr.GetMergeCommitSHA(),
		Assignees:      assignees,
		Head:           FromGitHubBranch(pr.Head),
		Base:           FromGitHubBranch(pr.Base),
	}
}

// FromGitHubIssue converts a go-github issue to the domain model.
func FromGitHubIssue(issue *github.Issue) Issue {
	assignees := make([]User, 0, len(issue.Assignees))
	for _, a := range issue.Assignees {
		assignees = append(assignees, FromGitHubUser(a))
	}
	return Issue{
		Title:     issue.GetTitle(),
		HTMLURL:   issue.GetHTMLURL(),
		Author:    FromGitHubUser(issue.GetUser()),
		Assignees: assignees,
	}
}

// FromGitHubLabel converts a go-github label to the domain model.
func FromGitHubLabel(l *github.Label) Label {
	return Label{Name: l.GetName()}
}

// FromGitHubReview converts a go-github pull request review to the domain
// model. Unrecognized states pass through verbatim; the handler treats any
// state other than approved/changes_requested/commented as "other".
func FromGitHubReview(r *github.PullRequestReview) Review {
	return Review{
		State:   ReviewState(r.GetState()),
		Body:    r.GetBody(),
		HTMLURL: r.GetHTMLURL(),
		Author:  FromGitHubUser(r.GetUser()),
	}
}

// FromGitHubRepositoryComment converts a commit-comment event's comment.
func FromGitHubRepositoryComment(c *github.RepositoryComment) Comment {
	return Comment{
		CommitID: c.GetCommitID(),
		Path:     c.GetPath(),
		Body:     c.GetBody(),
		HTMLURL:  c.GetHTMLURL(),
		Author:   FromGitHubUser(c.GetUser()),
	}
}

// FromGitHubIssueComment converts an issue-comment event's comment.
func FromGitHubIssueComment(c *github.IssueComment) Comment {
	return Comment{
		Body:    c.GetBody(),
		HTMLURL: c.GetHTMLURL(),
		Author:  FromGitHubUser(c.GetUser()),
	}
}

// FromGitHubPullRequestComment converts a PR review-comment event's comment.
func FromGitHubPullRequestComment(c *github.PullRequestComment) Comment {
	return Comment{
		CommitID: c.GetCommitID(),
		Path:     c.GetPath(),
		Body:     c.GetBody(),
		HTMLURL:  c.GetHTMLURL(),
		Author:   FromGitHubUser(c.GetUser()),
	}
}

// FromGitHubHeadCommit converts one push-event commit entry.
func FromGitHubHeadCommit(c *github.HeadCommit) Commit {
	return Commit{
		ID:      c.GetID(),
		TreeID:  c.GetTreeID(),
		Message: c.GetMessage(),
		URL:     c.GetURL(),
	}
}
