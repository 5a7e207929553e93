package mgroup

import (
	"github.com/dietlog/server/pkg/idwrap"
)

// Group is a set of client accounts managed by one adviser. Groups are
// ordered per adviser; an archived group is detached from that order but
// still owned through LastAdviserID.
type Group struct {
	ID            idwrap.IDWrap
	Name          string
	AdviserID     *idwrap.IDWrap
	LastAdviserID *idwrap.IDWrap
}

func (g Group) Archived() bool {
	return g.AdviserID == nil
}

// OwnedBy reports whether adviserID manages the group, archived or not.
func (g Group) OwnedBy(adviserID idwrap.IDWrap) bool {
	if g.AdviserID != nil {
		return g.AdviserID.Compare(adviserID) == 0
	}
	return g.LastAdviserID != nil && g.LastAdviserID.Compare(adviserID) == 0
}

// Owner returns the adviser managing the group, archived or not.
func (g Group) Owner() *idwrap.IDWrap {
	if g.AdviserID != nil {
		return g.AdviserID
	}
	return g.LastAdviserID
}
