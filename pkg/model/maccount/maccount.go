package maccount

import (
	"github.com/dietlog/server/pkg/idwrap"
)

type Account struct {
	ID        idwrap.IDWrap
	Email     string
	Name      string
	IsAdviser bool
	// GroupID is nil while the account is not in a group.
	GroupID *idwrap.IDWrap
	// LastGroupID keeps the most recent group, also after leaving it.
	LastGroupID *idwrap.IDWrap
}

func (a Account) InGroup(groupID idwrap.IDWrap) bool {
	return a.GroupID != nil && a.GroupID.Compare(groupID) == 0
}
