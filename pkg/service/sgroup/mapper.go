package sgroup

import (
	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mgroup"
	"github.com/dietlog/server/pkg/movable"
)

func ConvertToModelGroup(g gen.AccountGroup) *mgroup.Group {
	return &mgroup.Group{
		ID:            g.ID,
		Name:          g.Name,
		AdviserID:     g.AdviserID,
		LastAdviserID: g.LastAdviserID,
	}
}

func groupNode(g gen.AccountGroup) movable.Node[idwrap.IDWrap, idwrap.IDWrap] {
	return movable.Node[idwrap.IDWrap, idwrap.IDWrap]{
		ID:        g.ID,
		Partition: g.AdviserID,
		Next:      g.NextID,
	}
}
