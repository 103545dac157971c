package mojang

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darmiel/mcauth/internal/core"
)

func TestAccount_StatusFollowsAccessToken(t *testing.T) {
	acc := newTestAccount(&fakeAuth{})
	assert.Equal(t, core.StatusNotVerified, acc.Status())

	acc.SetAccessToken("abc")
	assert.Equal(t, core.StatusVerified, acc.Status())

	acc.SetAccessToken("")
	assert.Equal(t, core.StatusNotVerified, acc.Status())

	// status never depends on the other tokens
	acc.SetClientToken("client")
	acc.SetToken(TokenLoginUsername, "alex")
	assert.Equal(t, core.StatusNotVerified, acc.Status())
}

func TestAccount_Tokens(t *testing.T) {
	acc := newTestAccount(&fakeAuth{})
	assert.Empty(t, acc.Token("missing"))

	acc.SetToken("custom", "value")
	assert.Equal(t, "value", acc.Token("custom"))

	acc.SetClientToken("client")
	assert.Equal(t, "client", acc.ClientToken())
	assert.Equal(t, "client", acc.Token(TokenClient))
}

func TestAccount_Profiles(t *testing.T) {
	acc := newTestAccount(&fakeAuth{})
	assert.Equal(t, 0, acc.Len())
	assert.Equal(t, core.NotFound, acc.IndexOf("p1"))
	_, ok := acc.CurrentProfile()
	assert.False(t, ok)
	assert.Empty(t, acc.Avatar())
	assert.Empty(t, acc.BigAvatar())

	acc.SetProfiles([]Profile{
		NewProfile("p1", "Alex", false),
		NewProfile("p2", "Steve", true),
	})
	assert.Equal(t, 2, acc.Len())
	assert.Equal(t, 1, acc.IndexOf("p2"))
	assert.Equal(t, core.NotFound, acc.IndexOf("p3"))

	p, ok := acc.ProfileAt(1)
	assert.True(t, ok)
	assert.Equal(t, "Steve", p.Name())
	assert.True(t, p.Legacy())

	_, ok = acc.ProfileAt(2)
	assert.False(t, ok)
	_, ok = acc.ProfileAt(-1)
	assert.False(t, ok)

	// nothing selected until asked to
	_, ok = acc.CurrentProfile()
	assert.False(t, ok)
}

func TestAccount_SetCurrentProfile(t *testing.T) {
	acc := newTestAccount(&fakeAuth{})
	acc.SetProfiles([]Profile{
		NewProfile("p1", "Alex", false),
		NewProfile("p2", "Steve", false),
	})

	assert.True(t, acc.SetCurrentProfile("p2"))
	current, ok := acc.CurrentProfile()
	assert.True(t, ok)
	assert.Equal(t, "p2", current.ID())
	assert.Equal(t, "web:https://crafatar.com/avatars/p2", acc.Avatar())
	assert.Equal(t, "web:https://crafatar.com/renders/body/p2", acc.BigAvatar())

	// unknown profile keeps the selection
	assert.False(t, acc.SetCurrentProfile("nope"))
	current, ok = acc.CurrentProfile()
	assert.True(t, ok)
	assert.Equal(t, "p2", current.ID())
}

func TestAccount_SetProfilesRevalidatesSelection(t *testing.T) {
	acc := newTestAccount(&fakeAuth{})
	acc.SetProfiles([]Profile{NewProfile("p1", "Alex", false), NewProfile("p2", "Steve", false)})
	assert.True(t, acc.SetCurrentProfile("p2"))

	// selection survives if the profile is still there, even at another index
	acc.SetProfiles([]Profile{NewProfile("p2", "Steve", false)})
	current, ok := acc.CurrentProfile()
	assert.True(t, ok)
	assert.Equal(t, "p2", current.ID())

	acc.SetProfiles([]Profile{NewProfile("p3", "Herobrine", false)})
	_, ok = acc.CurrentProfile()
	assert.False(t, ok)
}

func TestAccount_ProfilesAreCopies(t *testing.T) {
	acc := newTestAccount(&fakeAuth{})
	profiles := []Profile{NewProfile("p1", "Alex", false)}
	acc.SetProfiles(profiles)

	profiles[0].SetName("Changed")
	assert.Equal(t, "Alex", acc.MojangProfiles()[0].Name())

	list := acc.MojangProfiles()
	list[0].SetID("other")
	assert.Equal(t, 0, acc.IndexOf("p1"))
}

func TestAccount_PopulateSession(t *testing.T) {
	acc := loggedInAccount(t, &fakeAuth{})

	var session core.Session
	acc.PopulateSession(&session)
	assert.Equal(t, core.SessionPlayableOnline, session.Status)
	assert.Equal(t, "alex@example.com", session.AuthUsername)
	assert.Equal(t, "Alex", session.PlayerName)
	assert.Equal(t, "p1", session.UUID)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "client-1", session.ClientToken)
	assert.Equal(t, "mojang", session.UserType)
	assert.Equal(t, []string{"en"}, session.UserProperties["preferredLanguage"])
	assert.Equal(t, "token:access-1:p1", session.SessionID())

	assert.True(t, acc.SetCurrentProfile("p2"))
	acc.PopulateSession(&session)
	assert.Equal(t, "legacy", session.UserType)

	acc.SetAccessToken("")
	acc.PopulateSession(&session)
	assert.Equal(t, core.SessionRequiresPassword, session.Status)
	assert.Equal(t, "-", session.SessionID())
}

func TestAccount_UserIsCopied(t *testing.T) {
	acc := loggedInAccount(t, &fakeAuth{})
	user := acc.User()
	user.Properties[0].Value = "de"
	assert.Equal(t, "en", acc.User().Properties[0].Value)
}

func TestType_Descriptor(t *testing.T) {
	typ := NewType(&fakeAuth{})
	assert.Equal(t, TypeID, typ.ID())
	assert.Equal(t, "Mojang", typ.Text())
	assert.Equal(t, core.CredentialUsernamePassword, typ.Kind())
	assert.NotEmpty(t, typ.UsernameText())
	assert.NotEmpty(t, typ.PasswordText())

	acc := typ.Create()
	assert.Equal(t, typ, acc.Type())
	assert.Equal(t, core.StateIdle, acc.State())
	assert.Len(t, randomClientToken(), 32)
}
