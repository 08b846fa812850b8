// Package registry holds the two configuration-derived, read-only lookup
// tables the Event Handler consults: which repos post to a review channel,
// and how to address individual forge users directly.
package registry

// RepoEntry is one configured repo's review-channel binding.
type RepoEntry struct {
	Host    string
	Owner   string
	Name    string
	Channel string
}

// RepoRegistry maps (host, "owner/name") to a configured review channel.
// It is built once at startup from configuration and never mutated after;
// callers may use it concurrently without further synchronization.
type RepoRegistry struct {
	channels map[string]string
}

// NewRepoRegistry builds a registry from a list of configured repo entries.
// A later entry for the same (host, owner/name) overwrites an earlier one.
func NewRepoRegistry(entries []RepoEntry) *RepoRegistry {
	channels := make(map[string]string, len(entries))
	for _, e := range entries {
		channels[repoKey(e.Host, e.Owner+"/"+e.Name)] = e.Channel
	}
	return &RepoRegistry{channels: channels}
}

func repoKey(host, fullName string) string {
	return host + "/" + fullName
}

// Lookup returns the configured review channel for (host, owner/name), or
// ("", false) if the repo is not configured.
func (r *RepoRegistry) Lookup(host, fullName string) (string, bool) {
	channel, ok := r.channels[repoKey(host, fullName)]
	return channel, ok
}

// IsConfigured reports whether (host, owner/name) has a review channel.
func (r *RepoRegistry) IsConfigured(host, fullName string) bool {
	_, ok := r.channels[repoKey(host, fullName)]
	return ok
}
