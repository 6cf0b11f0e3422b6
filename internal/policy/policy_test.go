package policy_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/policy"
)

func userWithRole(role domain.Role) domain.User {
	return domain.User{ID: uuid.New(), Username: "someone", Role: role}
}

func TestAllow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		role domain.Role
		cap  policy.Capability
		want bool
	}{
		{name: "guest cannot translate", role: domain.RoleGuest, cap: policy.CapTranslate, want: false},
		{name: "contributor cannot translate", role: domain.RoleContributor, cap: policy.CapTranslate, want: false},
		{name: "translator can translate", role: domain.RoleTranslator, cap: policy.CapTranslate, want: true},
		{name: "contributor can suggest", role: domain.RoleContributor, cap: policy.CapSuggest, want: true},
		{name: "guest cannot suggest", role: domain.RoleGuest, cap: policy.CapSuggest, want: false},
		{name: "translator cannot accept suggestions", role: domain.RoleTranslator, cap: policy.CapAcceptSuggestion, want: false},
		{name: "reviewer can accept suggestions", role: domain.RoleReviewer, cap: policy.CapAcceptSuggestion, want: true},
		{name: "translator can download changes", role: domain.RoleTranslator, cap: policy.CapDownloadChanges, want: true},
		{name: "guest cannot download changes", role: domain.RoleGuest, cap: policy.CapDownloadChanges, want: false},
		{name: "admin can search replace", role: domain.RoleAdmin, cap: policy.CapSearchReplace, want: true},
		{name: "translator cannot search replace", role: domain.RoleTranslator, cap: policy.CapSearchReplace, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, policy.Allow(userWithRole(tt.role), tt.cap))
		})
	}
}

func TestAllowUnknownCapability(t *testing.T) {
	t.Parallel()
	assert.False(t, policy.Allow(userWithRole(domain.RoleAdmin), policy.Capability("bogus")))
}

func TestCheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, policy.Check(userWithRole(domain.RoleAdmin), policy.CapTranslate))
	assert.ErrorIs(t, policy.Check(userWithRole(domain.RoleGuest), policy.CapTranslate), domain.ErrPermissionDenied)
}

func TestAllowSuggestionDelete(t *testing.T) {
	t.Parallel()

	owner := userWithRole(domain.RoleContributor)
	other := userWithRole(domain.RoleContributor)
	suggestion := domain.Suggestion{ID: uuid.New(), UserID: &owner.ID}

	assert.True(t, policy.AllowSuggestionDelete(owner, suggestion), "proposer may withdraw own suggestion")
	assert.False(t, policy.AllowSuggestionDelete(other, suggestion))
	assert.True(t, policy.AllowSuggestionDelete(userWithRole(domain.RoleReviewer), suggestion))
}
