package taccount

import (
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/maccount"
)

type Account struct {
	AccountId   string  `json:"accountId"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	IsAdviser   bool    `json:"isAdviser"`
	GroupId     *string `json:"groupId,omitempty"`
	LastGroupId *string `json:"lastGroupId,omitempty"`
}

// Member is an account as listed inside a group.
type Member struct {
	AccountId string `json:"accountId"`
	Name      string `json:"name"`
}

func SerializeModelToRPC(a maccount.Account) *Account {
	return &Account{
		AccountId:   a.ID.String(),
		Email:       a.Email,
		Name:        a.Name,
		IsAdviser:   a.IsAdviser,
		GroupId:     idString(a.GroupID),
		LastGroupId: idString(a.LastGroupID),
	}
}

func SerializeModelToRPCItem(a maccount.Account) *Member {
	return &Member{
		AccountId: a.ID.String(),
		Name:      a.Name,
	}
}

func idString(id *idwrap.IDWrap) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
