package raccount_test

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dietlog/server/internal/api"
	"github.com/dietlog/server/internal/api/apitest"
	"github.com/dietlog/server/internal/api/raccount"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mevent"
	"github.com/dietlog/server/pkg/testutil"
	"github.com/dietlog/server/pkg/translate/taccount"
)

func newEnv(t *testing.T) *apitest.Env {
	return apitest.New(t, func(db *sql.DB, s testutil.BaseTestServices, stream api.Streamer) []api.Service {
		return []api.Service{raccount.New(db, s.As, s.Gs, stream, apitest.Secret, 0)}
	})
}

func TestSignupAndMe(t *testing.T) {
	env := newEnv(t)

	rec := env.Do(http.MethodPost, "/accounts", raccount.AccountCreateRequest{
		Email:     " Ann@Example.com ",
		Name:      "Ann",
		IsAdviser: true,
	}, nil)
	apitest.Status(t, http.StatusCreated, rec)
	created := apitest.Decode[raccount.AccountCreateResponse](t, rec)
	assert.Equal(t, "ann@example.com", created.Account.Email)
	assert.True(t, created.Account.IsAdviser)
	require.NotEmpty(t, created.AccessToken)

	id := idwrap.NewTextMust(created.Account.AccountId)
	rec = env.Do(http.MethodGet, "/accounts/me", nil, &id)
	apitest.Status(t, http.StatusOK, rec)
	me := apitest.Decode[taccount.Account](t, rec)
	assert.Equal(t, created.Account, me)

	rec = env.Do(http.MethodPost, "/accounts", raccount.AccountCreateRequest{Email: "ann@example.com", Name: "Other"}, nil)
	apitest.Status(t, http.StatusConflict, rec)
}

func TestSignupValidation(t *testing.T) {
	env := newEnv(t)

	rec := env.Do(http.MethodPost, "/accounts", raccount.AccountCreateRequest{Email: "not an email", Name: "Ann"}, nil)
	apitest.Status(t, http.StatusBadRequest, rec)

	rec = env.Do(http.MethodPost, "/accounts", raccount.AccountCreateRequest{Email: "ann@example.com", Name: "  "}, nil)
	apitest.Status(t, http.StatusBadRequest, rec)
	assert.Contains(t, rec.Body.String(), `"message"`)
}

func TestMeRequiresToken(t *testing.T) {
	env := newEnv(t)
	rec := env.Do(http.MethodGet, "/accounts/me", nil, nil)
	apitest.Status(t, http.StatusUnauthorized, rec)

	ghost := idwrap.NewNow()
	rec = env.Do(http.MethodGet, "/accounts/me", nil, &ghost)
	apitest.Status(t, http.StatusNotFound, rec)
}

func TestUpdateName(t *testing.T) {
	env := newEnv(t)
	id := env.CreateAccount("ann", false)

	rec := env.Do(http.MethodPatch, "/accounts/me", raccount.AccountUpdateRequest{Name: "Annie"}, &id)
	apitest.Status(t, http.StatusOK, rec)
	assert.Equal(t, "Annie", apitest.Decode[taccount.Account](t, rec).Name)
}

func TestDeleteLeavesGroup(t *testing.T) {
	env := newEnv(t)
	ctx := t.Context()
	adviser := env.CreateAccount("adviser", true)
	group := env.CreateGroup(adviser, "monday")
	a := env.CreateAccount("a", false)
	b := env.CreateAccount("b", false)
	require.NoError(t, env.Services.As.MoveToGroup(ctx, a, group, 0))
	require.NoError(t, env.Services.As.MoveToGroup(ctx, b, group, 1))
	events := env.Subscribe(adviser)

	rec := env.Do(http.MethodDelete, "/accounts/me", nil, &a)
	apitest.Status(t, http.StatusNoContent, rec)

	evt := apitest.NextEvent(t, events)
	assert.Equal(t, mevent.KindDeleted, evt.Kind)
	assert.Equal(t, mevent.ListMembers, evt.List)
	assert.Equal(t, 0, evt.ItemID.Compare(a))

	members, err := env.Services.As.ListByGroup(ctx, group)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, 0, members[0].ID.Compare(b))

	rec = env.Do(http.MethodDelete, "/accounts/me", nil, &adviser)
	apitest.Status(t, http.StatusConflict, rec)
}
