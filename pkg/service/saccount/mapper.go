package saccount

import (
	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/maccount"
	"github.com/dietlog/server/pkg/movable"
)

func ConvertToModelAccount(a gen.Account) *maccount.Account {
	return &maccount.Account{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		IsAdviser:   a.IsAdviser,
		GroupID:     a.GroupID,
		LastGroupID: a.LastGroupID,
	}
}

func accountNode(a gen.Account) movable.Node[idwrap.IDWrap, idwrap.IDWrap] {
	return movable.Node[idwrap.IDWrap, idwrap.IDWrap]{
		ID:        a.ID,
		Partition: a.GroupID,
		Next:      a.NextID,
	}
}
