package tgroup

import (
	"github.com/dietlog/server/pkg/model/mgroup"
)

type Group struct {
	GroupId  string `json:"groupId"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

func SerializeModelToRPC(g mgroup.Group) *Group {
	return &Group{
		GroupId:  g.ID.String(),
		Name:     g.Name,
		Archived: g.Archived(),
	}
}
