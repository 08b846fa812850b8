package forge

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseRepoURL parses a Repo from "http(s)://{host}/{owner}/{name}[/...]".
// Any path suffix beyond owner/name is ignored, per spec §6.
func ParseRepoURL(rawURL string) (Repo, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Repo{}, fmt.Errorf("invalid repo URL %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return Repo{}, fmt.Errorf("invalid repo URL %q: missing host", rawURL)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return Repo{}, fmt.Errorf("invalid repo URL %q: expected /owner/name", rawURL)
	}

	return Repo{
		Host:    u.Host,
		Owner:   segments[0],
		Name:    segments[1],
		HTMLURL: fmt.Sprintf("%s://%s/%s/%s", schemeOrHTTP(u.Scheme), u.Host, segments[0], segments[1]),
	}, nil
}

func schemeOrHTTP(scheme string) string {
	if scheme == "" {
		return "http"
	}
	return scheme
}
