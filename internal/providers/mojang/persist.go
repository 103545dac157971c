package mojang

import (
	"fmt"

	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/yggdrasil"
)

// document keys
const (
	keyTokens        = "tokens"
	keyProfiles      = "profiles"
	keyActiveProfile = "activeProfile"
	keyUser          = "user"

	// FormatV2 kept the tokens at the top level, the login name was "username"
	keyLegacyUsername = "username"
)

// loaded is a fully decoded document, committed only if decoding succeeded completely.
type loaded struct {
	tokens      core.TokenStore
	profiles    []Profile
	selectedID  string
	hasSelected bool
	user        User
}

// Load replaces the account state with doc. Either everything is replaced or nothing is.
func (a *Account) Load(format core.FileFormat, doc core.Document) error {
	if !format.Supported() {
		return core.NewFormatError("", "unsupported format version %d", format)
	}
	if doc == nil {
		return core.NewFormatError("", "empty account document")
	}

	var l loaded
	var err error
	if format == core.FormatV2 {
		l.tokens, err = loadLegacyTokens(doc)
	} else {
		l.tokens, err = loadTokens(doc)
	}
	if err != nil {
		return err
	}
	if l.profiles, err = loadProfiles(doc); err != nil {
		return err
	}
	if l.user, err = loadUser(doc); err != nil {
		return err
	}

	active, ok, err := doc.String(keyActiveProfile)
	if err != nil {
		return err
	}
	if ok {
		for _, p := range l.profiles {
			if p.id == active {
				l.selectedID, l.hasSelected = active, true
				break
			}
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inflight != nil {
		return core.ErrAlreadyInProgress
	}
	a.tokens = l.tokens
	a.profiles = l.profiles
	a.selectedID, a.hasSelected = l.selectedID, l.hasSelected
	a.user = l.user
	return nil
}

func loadTokens(doc core.Document) (core.TokenStore, error) {
	tokens := core.NewTokenStore()
	raw, ok := doc[keyTokens]
	if !ok {
		return tokens, core.NewFormatError(keyTokens, "missing required key")
	}
	if err := tokens.Deserialize(raw); err != nil {
		return tokens, err
	}
	return tokens, nil
}

func loadLegacyTokens(doc core.Document) (core.TokenStore, error) {
	tokens := core.NewTokenStore()
	for key, name := range map[string]string{
		keyLegacyUsername: TokenLoginUsername,
		TokenClient:       TokenClient,
		TokenAccess:       TokenAccess,
	} {
		value, ok, err := doc.String(key)
		if err != nil {
			return tokens, err
		}
		if ok {
			tokens.Set(name, value)
		}
	}
	return tokens, nil
}

func loadProfiles(doc core.Document) ([]Profile, error) {
	arr, ok, err := doc.Array(keyProfiles)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, core.NewFormatError(keyProfiles, "missing required key")
	}

	profiles := make([]Profile, 0, len(arr))
	seen := make(map[string]struct{}, len(arr))
	for i, raw := range arr {
		field := fmt.Sprintf("%s[%d]", keyProfiles, i)
		obj, ok := asObject(raw)
		if !ok {
			return nil, core.NewFormatError(field, "expected object, got %T", raw)
		}
		id, ok, err := obj.String("id")
		if err != nil || !ok {
			return nil, core.NewFormatError(field+".id", "required string")
		}
		name, ok, err := obj.String("name")
		if err != nil || !ok {
			return nil, core.NewFormatError(field+".name", "required string")
		}
		legacy := false
		if rawLegacy, ok := obj["legacy"]; ok && rawLegacy != nil {
			if legacy, ok = rawLegacy.(bool); !ok {
				return nil, core.NewFormatError(field+".legacy", "expected bool, got %T", rawLegacy)
			}
		}
		if _, dup := seen[id]; dup {
			return nil, core.NewFormatError(field+".id", "duplicate profile id '%s'", id)
		}
		seen[id] = struct{}{}
		profiles = append(profiles, NewProfile(id, name, legacy))
	}
	return profiles, nil
}

func loadUser(doc core.Document) (User, error) {
	obj, ok, err := doc.Object(keyUser)
	if err != nil || !ok {
		return User{}, err
	}
	id, _, err := obj.String("id")
	if err != nil {
		return User{}, core.NewFormatError(keyUser+".id", "expected string")
	}
	user := User{ID: id}

	props, ok, err := obj.Array("properties")
	if err != nil {
		return User{}, core.NewFormatError(keyUser+".properties", "expected array")
	}
	if !ok {
		return user, nil
	}
	for i, raw := range props {
		field := fmt.Sprintf("%s.properties[%d]", keyUser, i)
		prop, ok := asObject(raw)
		if !ok {
			return User{}, core.NewFormatError(field, "expected object, got %T", raw)
		}
		name, ok, err := prop.String("name")
		if err != nil || !ok {
			return User{}, core.NewFormatError(field+".name", "required string")
		}
		value, _, err := prop.String("value")
		if err != nil {
			return User{}, core.NewFormatError(field+".value", "expected string")
		}
		user.Properties = append(user.Properties, yggdrasil.Property{Name: name, Value: value})
	}
	return user, nil
}

func asObject(raw any) (core.Document, bool) {
	switch obj := raw.(type) {
	case map[string]any:
		return obj, true
	case core.Document:
		return obj, true
	default:
		return nil, false
	}
}

// Save returns the account in the current format.
func (a *Account) Save() core.Document {
	a.mu.Lock()
	defer a.mu.Unlock()

	profiles := make([]any, 0, len(a.profiles))
	for _, p := range a.profiles {
		profiles = append(profiles, map[string]any{
			"id":     p.id,
			"name":   p.name,
			"legacy": p.legacy,
		})
	}

	doc := core.Document{
		keyTokens:   a.tokens.Object(),
		keyProfiles: profiles,
	}
	if a.hasSelected {
		doc[keyActiveProfile] = a.selectedID
	}
	if a.user.ID != "" || len(a.user.Properties) > 0 {
		props := make([]any, 0, len(a.user.Properties))
		for _, prop := range a.user.Properties {
			props = append(props, map[string]any{
				"name":  prop.Name,
				"value": prop.Value,
			})
		}
		doc[keyUser] = map[string]any{
			"id":         a.user.ID,
			"properties": props,
		}
	}
	return doc
}
