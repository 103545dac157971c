package providers

import (
	"fmt"
	"sort"

	"github.com/darmiel/mcauth/internal/core"
)

// TypeKey is the document key holding the provider discriminant of a persisted account.
const TypeKey = "type"

type UnknownProviderError struct {
	ID string
}

func (e UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown account provider '%s'", e.ID)
}

// Registry maps provider IDs to their account types.
type Registry struct {
	types map[string]core.AccountType
}

func NewRegistry(types ...core.AccountType) (*Registry, error) {
	r := &Registry{types: make(map[string]core.AccountType)}
	for _, t := range types {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(t core.AccountType) error {
	if t.ID() == "" {
		return fmt.Errorf("account type has an empty id")
	}
	if _, exists := r.types[t.ID()]; exists {
		return fmt.Errorf("account type '%s' registered twice", t.ID())
	}
	r.types[t.ID()] = t
	return nil
}

func (r *Registry) Get(id string) (core.AccountType, bool) {
	t, ok := r.types[id]
	return t, ok
}

// Types returns all registered types ordered by ID.
func (r *Registry) Types() []core.AccountType {
	list := make([]core.AccountType, 0, len(r.types))
	for _, t := range r.types {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID() < list[j].ID()
	})
	return list
}

func (r *Registry) Create(id string) (core.Account, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, UnknownProviderError{ID: id}
	}
	return t.Create(), nil
}

// Decode reconstructs an account from a persisted document, selecting the provider by its type key.
// FormatV2 files predate the type key and only ever contained Mojang accounts.
func (r *Registry) Decode(format core.FileFormat, doc core.Document, fallbackType string) (core.Account, error) {
	typeID, ok, err := doc.String(TypeKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		if format != core.FormatV2 || fallbackType == "" {
			return nil, core.NewFormatError(TypeKey, "missing required key")
		}
		typeID = fallbackType
	}
	t, ok := r.types[typeID]
	if !ok {
		return nil, core.NewFormatError(TypeKey, "unknown account provider '%s'", typeID)
	}
	acc := t.Create()
	if err := acc.Load(format, doc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Encode saves acc and adds its type key.
func Encode(acc core.Account) core.Document {
	doc := acc.Save()
	doc[TypeKey] = acc.Type().ID()
	return doc
}
