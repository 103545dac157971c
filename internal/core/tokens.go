package core

import "sort"

// TokenPair is a single persisted token.
type TokenPair struct {
	Name  string
	Value string
}

// TokenStore maps token names to values. Absent names read as "".
// It is not safe for concurrent use, the owning account guards it.
type TokenStore struct {
	values map[string]string
}

func NewTokenStore() TokenStore {
	return TokenStore{values: make(map[string]string)}
}

func (t *TokenStore) Get(name string) string {
	return t.values[name]
}

// Set overwrites the value of name. Setting "" keeps the key, use Delete to remove it.
func (t *TokenStore) Set(name, value string) {
	if t.values == nil {
		t.values = make(map[string]string)
	}
	t.values[name] = value
}

func (t *TokenStore) Delete(name string) {
	delete(t.values, name)
}

func (t *TokenStore) Len() int {
	return len(t.values)
}

// Serialize returns all tokens sorted by name.
func (t *TokenStore) Serialize() []TokenPair {
	pairs := make([]TokenPair, 0, len(t.values))
	for name, value := range t.values {
		pairs = append(pairs, TokenPair{Name: name, Value: value})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Name < pairs[j].Name
	})
	return pairs
}

// Deserialize replaces the whole store with raw, which must be an object of strings.
// On error the store is left as it was.
func (t *TokenStore) Deserialize(raw any) error {
	if doc, isDoc := raw.(Document); isDoc {
		raw = map[string]any(doc)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		if strs, ok := raw.(map[string]string); ok {
			t.values = make(map[string]string, len(strs))
			for k, v := range strs {
				t.values[k] = v
			}
			return nil
		}
		return NewFormatError("tokens", "expected object, got %T", raw)
	}
	next := make(map[string]string, len(obj))
	for name, value := range obj {
		str, ok := value.(string)
		if !ok {
			return NewFormatError("tokens."+name, "expected string, got %T", value)
		}
		next[name] = str
	}
	t.values = next
	return nil
}

// Clone returns an independent copy.
func (t *TokenStore) Clone() TokenStore {
	cpy := make(map[string]string, len(t.values))
	for k, v := range t.values {
		cpy[k] = v
	}
	return TokenStore{values: cpy}
}

// Object returns the tokens as a document object.
func (t *TokenStore) Object() map[string]any {
	obj := make(map[string]any, len(t.values))
	for k, v := range t.values {
		obj[k] = v
	}
	return obj
}
