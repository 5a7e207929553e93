package mevent

import (
	"github.com/dietlog/server/pkg/idwrap"
)

type Kind string

const (
	KindCreated  Kind = "created"
	KindMoved    Kind = "moved"
	KindRemoved  Kind = "removed"
	KindDeleted  Kind = "deleted"
	KindArchived Kind = "archived"
	KindRestored Kind = "restored"
)

type List string

const (
	ListGroups  List = "groups"
	ListMembers List = "members"
	ListMeals   List = "meals"
	ListDishes  List = "dishes"
)

// Topic routes events to the account whose lists changed.
type Topic struct {
	AccountID idwrap.IDWrap
}

// OrderEvent describes one change to an ordered list. Index is the item's
// new position, or -1 when it left the list.
type OrderEvent struct {
	Owner  idwrap.IDWrap `json:"-"`
	Kind   Kind          `json:"kind"`
	List   List          `json:"list"`
	ListID string        `json:"listId"`
	ItemID idwrap.IDWrap `json:"itemId"`
	Index  int           `json:"index"`
}

func TopicOf(e OrderEvent) Topic {
	return Topic{AccountID: e.Owner}
}
