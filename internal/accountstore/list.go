package accountstore

import (
	"github.com/darmiel/mcauth/internal/core"
)

// AccountList is an ordered list of accounts keyed by their login username.
type AccountList struct {
	accounts []core.Account
	active   string
}

func (l *AccountList) Accounts() []core.Account {
	cpy := make([]core.Account, len(l.accounts))
	copy(cpy, l.accounts)
	return cpy
}

func (l *AccountList) Len() int {
	return len(l.accounts)
}

// Find returns the account logged in as username, or nil.
func (l *AccountList) Find(username string) core.Account {
	for _, acc := range l.accounts {
		if acc.LoginUsername() == username {
			return acc
		}
	}
	return nil
}

// Add appends acc, replacing an account with the same login username.
func (l *AccountList) Add(acc core.Account) {
	for i, existing := range l.accounts {
		if existing.LoginUsername() == acc.LoginUsername() {
			l.accounts[i] = acc
			return
		}
	}
	l.accounts = append(l.accounts, acc)
}

// Remove deletes the account logged in as username.
// Removing the active account clears the active selection.
func (l *AccountList) Remove(username string) error {
	for i, acc := range l.accounts {
		if acc.LoginUsername() != username {
			continue
		}
		l.accounts = append(l.accounts[:i], l.accounts[i+1:]...)
		if l.active == username {
			l.active = ""
		}
		return nil
	}
	return ErrAccountNotFound
}

// Active returns the active account, or nil if none is selected.
func (l *AccountList) Active() core.Account {
	if l.active == "" {
		return nil
	}
	return l.Find(l.active)
}

func (l *AccountList) SetActive(username string) error {
	if l.Find(username) == nil {
		return ErrAccountNotFound
	}
	l.active = username
	return nil
}
