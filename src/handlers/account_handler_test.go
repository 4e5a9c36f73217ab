package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/goldbooks/backend/src/models"
)

func TestAccounts_Get(t *testing.T) {
	env := newTestEnv(t)

	rec := doGet(t, env, "/api/accounts")

	require.Equal(t, http.StatusOK, rec.Code)
	var chart []models.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.Len(t, chart, 6)
}

func TestAccounts_PutReplacesChart(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env, http.MethodPut, "/api/accounts",
		`[{"accountNumber":"1000","accountName":"เงินสด","type":"asset"}]`)
	require.Equal(t, http.StatusOK, rec.Code)

	get := doGet(t, env, "/api/accounts")
	var chart []models.Account
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &chart))
	require.Len(t, chart, 1)
	assert.Equal(t, "1000", chart[0].AccountNumber)
}

func TestAccounts_PutRejectsInvalidChart(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing number", `[{"accountName":"เงินสด","type":"asset"}]`},
		{"missing name", `[{"accountNumber":"1000","type":"asset"}]`},
		{"duplicate number", `[
			{"accountNumber":"1000","accountName":"เงินสด","type":"asset"},
			{"accountNumber":"1000","accountName":"เงินสดย่อย","type":"asset"}
		]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, env, http.MethodPut, "/api/accounts", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRoles_Get(t *testing.T) {
	env := newTestEnv(t)

	rec := doGet(t, env, "/api/accounts/roles")

	require.Equal(t, http.StatusOK, rec.Code)
	var roles models.RoleMap
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roles))
	assert.Equal(t, "1200", roles[models.RoleInventory])
}

func TestRoles_PutValidated(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env, http.MethodPut, "/api/accounts/roles",
		`{"inventory":"1200","bankOrCash":"1100"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	get := doGet(t, env, "/api/accounts/roles")
	var roles models.RoleMap
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &roles))
	assert.Len(t, roles, 2)
}

func TestRoles_PutRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env, http.MethodPut, "/api/accounts/roles", `{"pettyCash":"1100"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "pettyCash")
}

func TestRoles_PutRejectsDanglingAccount(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env, http.MethodPut, "/api/accounts/roles", `{"inventory":"9999"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "9999")
}
