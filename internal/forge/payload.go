package forge

// Kind is the tagged-variant discriminant replacing the original
// optional-field-per-event design (§9 REDESIGN FLAGS): each Kind carries
// only the sub-objects that event actually has.
type Kind string

const (
	KindPing            Kind = "ping"
	KindCommitComment   Kind = "commit_comment"
	KindIssueComment    Kind = "issue_comment"
	KindPRReviewComment Kind = "pull_request_review_comment"
	KindPRReview        Kind = "pull_request_review"
	KindPullRequest     Kind = "pull_request"
	KindPush            Kind = "push"
	KindUnknown         Kind = ""
)

// Payload is the single parsed representation the Event Handler consumes.
// The HTTP front-end is responsible for producing one from a raw webhook
// body; only the fields relevant to Kind are populated.
type Payload struct {
	Kind   Kind
	Action string

	Sender     User
	Repository Repo

	PullRequest *PullRequest
	Issue       *Issue
	Comment     *Comment
	Review      *Review
	Label       *Label

	RefName    string
	BeforeSHA  string
	AfterSHA   string
	Forced     bool
	CompareURL string
	Commits    []Commit
}
