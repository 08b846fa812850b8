// Package webhook is the HTTP front-end: it verifies and decodes inbound
// GitHub webhook deliveries, translates them into forge.Payload values, and
// dispatches them to the Event Handler.
package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/gorilla/mux"

	"github.com/octobridge/bridge/internal/forge"
	"github.com/octobridge/bridge/internal/handler"
	"github.com/octobridge/bridge/internal/logging"
)

// maxWebhookBodySize limits the body we read to prevent DoS.
const maxWebhookBodySize = 1 << 20 // 1 MB

// Server is the HTTP front-end wrapping an Event Handler.
type Server struct {
	Handler *handler.Handler
	Secret  []byte
	Log     logging.Logger

	router    *mux.Router
	startedAt time.Time
	metrics   *metricsRegistry
}

// New builds a Server ready to ServeHTTP. secret is the configured GitHub
// webhook secret used to validate every inbound delivery's HMAC signature.
func New(h *handler.Handler, secret string, log logging.Logger) *Server {
	s := &Server{
		Handler:   h,
		Secret:    []byte(secret),
		Log:       log,
		startedAt: time.Now(),
		metrics:   newMetricsRegistry(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/webhooks/github", s.handleWebhook).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleWebhook verifies the delivery's signature, decodes it by its
// X-GitHub-Event type, and dispatches the translated payload to the Event
// Handler. There is deliberately no delivery-ID dedup: redelivery of the
// same event is out of scope, and the forge is expected to retry on a
// non-2xx response.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodySize)
	defer func() { _ = r.Body.Close() }()

	body, err := github.ValidatePayload(r, s.Secret)
	if err != nil {
		s.Log.Warn("webhook: signature validation failed", "error", err.Error())
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := github.WebHookType(r)
	deliveryID := github.DeliveryID(r)

	event, err := github.ParseWebHook(eventType, body)
	if err != nil {
		s.Log.Warn("webhook: failed to parse payload", "event", eventType, "delivery", deliveryID, "error", err.Error())
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	payload, ok := translate(eventType, event)
	if !ok {
		s.Log.Debug("webhook: ignoring unhandled event type", "event", eventType, "delivery", deliveryID)
		s.metrics.record(eventType)
		w.WriteHeader(http.StatusOK)
		return
	}

	s.metrics.record(eventType)
	result := s.Handler.Handle(r.Context(), payload)
	if !result.OK {
		http.Error(w, result.Tag, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, result.Tag)
}

// translate maps a decoded go-github webhook event onto forge.Payload. The
// boolean result is false for any event type the bridge does not act on.
func translate(eventType string, event any) (forge.Payload, bool) {
	switch e := event.(type) {
	case *github.PingEvent:
		return forge.Payload{Kind: forge.KindPing}, true

	case *github.CommitCommentEvent:
		return forge.Payload{
			Kind:       forge.KindCommitComment,
			Action:     e.GetAction(),
			Repository: forge.FromGitHubRepository(e.GetRepo()),
			Sender:     forge.FromGitHubUser(e.GetSender()),
			Comment:    commentFromRepositoryComment(e.GetComment()),
		}, true

	case *github.IssueCommentEvent:
		p := forge.Payload{
			Kind:       forge.KindIssueComment,
			Action:     e.GetAction(),
			Repository: forge.FromGitHubRepository(e.GetRepo()),
			Sender:     forge.FromGitHubUser(e.GetSender()),
			Comment:    commentFromIssueComment(e.GetComment()),
		}
		if issue := e.GetIssue(); issue != nil {
			v := forge.FromGitHubIssue(issue)
			p.Issue = &v
		}
		return p, true

	case *github.PullRequestReviewCommentEvent:
		p := forge.Payload{
			Kind:       forge.KindPRReviewComment,
			Action:     e.GetAction(),
			Repository: forge.FromGitHubRepository(e.GetRepo()),
			Sender:     forge.FromGitHubUser(e.GetSender()),
			Comment:    commentFromPullRequestComment(e.GetComment()),
		}
		if pr := e.GetPullRequest(); pr != nil {
			v := forge.FromGitHubPullRequest(pr)
			p.PullRequest = &v
		}
		return p, true

	case *github.PullRequestReviewEvent:
		p := forge.Payload{
			Kind:       forge.KindPRReview,
			Action:     e.GetAction(),
			Repository: forge.FromGitHubRepository(e.GetRepo()),
			Sender:     forge.FromGitHubUser(e.GetSender()),
		}
		if pr := e.GetPullRequest(); pr != nil {
			v := forge.FromGitHubPullRequest(pr)
			p.PullRequest = &v
		}
		if rv := e.GetReview(); rv != nil {
			v := forge.FromGitHubReview(rv)
			p.Review = &v
		}
		return p, true

	case *github.PullRequestEvent:
		p := forge.Payload{
			Kind:       forge.KindPullRequest,
			Action:     e.GetAction(),
			Repository: forge.FromGitHubRepository(e.GetRepo()),
			Sender:     forge.FromGitHubUser(e.GetSender()),
		}
		if pr := e.GetPullRequest(); pr != nil {
			v := forge.FromGitHubPullRequest(pr)
			p.PullRequest = &v
		}
		if lbl := e.GetLabel(); lbl != nil {
			v := forge.FromGitHubLabel(lbl)
			p.Label = &v
		}
		return p, true

	case *github.PushEvent:
		p := forge.Payload{
			Kind:       forge.KindPush,
			Repository: forge.FromGitHubPushRepository(e.GetRepo()),
			Sender:     forge.FromGitHubUser(e.GetSender()),
			RefName:    e.GetRef(),
			BeforeSHA:  e.GetBefore(),
			AfterSHA:   e.GetAfter(),
			Forced:     e.GetForced(),
			CompareURL: e.GetCompare(),
		}
		for _, c := range e.Commits {
			p.Commits = append(p.Commits, forge.FromGitHubHeadCommit(c))
		}
		return p, true

	default:
		return forge.Payload{}, false
	}
}

func commentFromRepositoryComment(c *github.RepositoryComment) *forge.Comment {
	if c == nil {
		return nil
	}
	v := forge.FromGitHubRepositoryComment(c)
	return &v
}

func commentFromIssueComment(c *github.IssueComment) *forge.Comment {
	if c == nil {
		return nil
	}
	v := forge.FromGitHubIssueComment(c)
	return &v
}

func commentFromPullRequestComment(c *github.PullRequestComment) *forge.Comment {
	if c == nil {
		return nil
	}
	v := forge.FromGitHubPullRequestComment(c)
	return &v
}

// --- healthz ---

type healthzResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	resp := healthzResponse{Status: "ok", Uptime: time.Since(s.startedAt).String()}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.Log.Error("webhook: failed to encode /healthz response", "error", err.Error())
	}
}

// --- metrics ---

type metricsResponse struct {
	EventCounts map[string]int `json:"event_counts"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	resp := metricsResponse{EventCounts: s.metrics.snapshot()}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.Log.Error("webhook: failed to encode /metrics response", "error", err.Error())
	}
}
