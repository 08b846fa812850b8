package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepoRegistry_LookupConfigured(t *testing.T) {
	r := NewRepoRegistry([]RepoEntry{
		{Host: "github.com", Owner: "some-user", Name: "some-repo", Channel: "the-reviews-channel"},
	})

	channel, ok := r.Lookup("github.com", "some-user/some-repo")
	assert.True(t, ok)
	assert.Equal(t, "the-reviews-channel", channel)
	assert.True(t, r.IsConfigured("github.com", "some-user/some-repo"))
}

func TestRepoRegistry_LookupUnconfigured(t *testing.T) {
	r := NewRepoRegistry(nil)

	_, ok := r.Lookup("github.com", "some-user/some-repo")
	assert.False(t, ok)
	assert.False(t, r.IsConfigured("github.com", "some-user/some-repo"))
}

func TestRepoRegistry_SameNameDifferentHostDoesNotCollide(t *testing.T) {
	r := NewRepoRegistry([]RepoEntry{
		{Host: "github.com", Owner: "a", Name: "b", Channel: "chan-a"},
		{Host: "git.example.com", Owner: "a", Name: "b", Channel: "chan-b"},
	})

	channel, ok := r.Lookup("github.com", "a/b")
	assert.True(t, ok)
	assert.Equal(t, "chan-a", channel)

	channel, ok = r.Lookup("git.example.com", "a/b")
	assert.True(t, ok)
	assert.Equal(t, "chan-b", channel)
}

func TestUserRegistry_ResolveDirectHandle_DefaultsToNormalized(t *testing.T) {
	r := NewUserRegistry(nil)
	assert.Equal(t, "@joe.reviewer", r.ResolveDirectHandle("joe-reviewer"))
}

func TestUserRegistry_ResolveDirectHandle_UsesOverride(t *testing.T) {
	r := NewUserRegistry([]UserEntry{
		{Login: "joe-reviewer", DirectHandle: "@joe"},
	})
	assert.Equal(t, "@joe", r.ResolveDirectHandle("joe-reviewer"))
}

func TestUserRegistry_ResolveDirectHandle_EmptyOverrideFallsBack(t *testing.T) {
	r := NewUserRegistry([]UserEntry{
		{Login: "joe-reviewer", DisplayName: "Joe"},
	})
	assert.Equal(t, "@joe.reviewer", r.ResolveDirectHandle("joe-reviewer"))
}
