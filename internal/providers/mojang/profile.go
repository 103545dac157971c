package mojang

import "github.com/darmiel/mcauth/internal/core"

const (
	avatarURL    = "web:https://crafatar.com/avatars/"
	bigAvatarURL = "web:https://crafatar.com/renders/body/"
)

var _ core.Profile = Profile{}

// Profile is a game profile within a Mojang account.
type Profile struct {
	id     string
	name   string
	legacy bool
}

func NewProfile(id, name string, legacy bool) Profile {
	return Profile{id: id, name: name, legacy: legacy}
}

func (p Profile) ID() string {
	return p.id
}

func (p *Profile) SetID(id string) {
	p.id = id
}

func (p Profile) Name() string {
	return p.name
}

func (p *Profile) SetName(name string) {
	p.name = name
}

func (p Profile) Legacy() bool {
	return p.legacy
}

func (p Profile) Avatar() string {
	if p.id == "" {
		return ""
	}
	return avatarURL + p.id
}

func (p Profile) BigAvatar() string {
	if p.id == "" {
		return ""
	}
	return bigAvatarURL + p.id
}

func (p Profile) TypeText() string {
	return "Minecraft"
}

func (p Profile) TypeIcon() string {
	return "icon:minecraft"
}
