package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/36node/store-cli/internal/api"
)

func TestAPICmd_PathParam(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("GET", "/members/u1", jsonResponse(200, memberJSON)))

	out := mustRun(t, "api", "getMember", "--param", "user=u1")
	assert.Contains(t, out, `"user": "u1"`)
	assert.Equal(t, "/members/u1", env.last(t).Path)
}

func TestAPICmd_MissingPathParam(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())

	_, errOut, err := runCmd(t, "", "api", "getMember")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, errOut, "user")
	assert.Empty(t, env.requests())
}

func TestAPICmd_RequiredQuery(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("GET", "/stats", jsonResponse(200, `[]`)))

	mustRun(t, "api", "listStats", "--filter", "user=u1", "--filter", "date[$gte]=2024-01-01")

	q := env.last(t).Query
	assert.Equal(t, "u1", q.Get("user"))
	assert.Equal(t, "2024-01-01", q.Get("date_gte"))
}

func TestAPICmd_QueryRejectedForNonListOps(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())

	_, _, err := runCmd(t, "", "api", "getMember", "--param", "user=u1", "--limit", "5")
	require.Error(t, err)
	assert.Empty(t, env.requests())
}

func TestAPICmd_BodyAndHeader(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("POST", "/orders", jsonResponse(201, `{"id":"o1"}`)))

	mustRun(t, "api", "createOrder", "--body", `{"product":"p1"}`, "-H", "X-Trace=abc")

	req := env.last(t)
	assert.Equal(t, "p1", req.JSON(t)["product"])
	assert.Equal(t, "abc", req.Header.Get("X-Trace"))
	assert.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))
}

func TestAPICmd_IncludeJSON(t *testing.T) {
	setupTestEnv(t, newRouteHandler().On("GET", "/products", listResponse("3", `[]`)))

	out := mustRun(t, "api", "listProducts", "--include", "-o", "json")
	obj := decodeObject(t, out)
	assert.EqualValues(t, 200, obj["status"])
	headers := obj["headers"].(map[string]any)
	assert.Contains(t, headers, "X-Total-Count")
}

func TestAPICmd_UnknownOperationSuggests(t *testing.T) {
	setupTestEnv(t, newRouteHandler())

	_, errOut, err := runCmd(t, "", "api", "getMembr")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, errOut, "getMember")
}

func TestAPICmd_DeleteNeedsConfirmation(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("DELETE", "/orders/o1", jsonResponse(200, ``)))

	_, _, err := runCmd(t, "n\n", "api", "deleteOrder", "--param", "orderId=o1")
	require.NoError(t, err)
	assert.Empty(t, env.requests())

	mustRun(t, "api", "deleteOrder", "--param", "orderId=o1", "--yes", "--silent")
	assert.Len(t, env.requests(), 1)
}

func TestAPICmd_DryRunPreviewsURL(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())

	out := mustRun(t, "api", "listMembers", "--limit", "2", "--dry-run", "-o", "json")
	obj := decodeObject(t, out)
	reqs := obj["requests"].([]any)
	require.Len(t, reqs, 1)
	preview := reqs[0].(map[string]any)
	assert.Equal(t, "GET", preview["method"])
	assert.Contains(t, preview["url"], "/members?_limit=2")
	assert.Empty(t, env.requests())
}

func TestOpsCmd_Text(t *testing.T) {
	out := mustRun(t, "ops")
	for _, name := range api.OperationNames() {
		assert.Contains(t, out, name)
	}
}

func TestOpsCmd_NamespaceJSON(t *testing.T) {
	out := mustRun(t, "ops", "--namespace", api.NamespaceInvitation, "-o", "json")
	items := decodeItems(t, out)
	assert.Len(t, items, len(api.NamespaceOperations(api.NamespaceInvitation)))
	for _, item := range items {
		assert.Equal(t, api.NamespaceInvitation, item["namespace"])
	}
}

func TestOpsCmd_UnknownNamespace(t *testing.T) {
	_, _, err := runCmd(t, "", "ops", "--namespace", "nope")
	require.Error(t, err)
}

func TestAPICmd_DryRunReportsMissingParameter(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())

	out, errOut, err := runCmd(t, "", "api", "updateMember", "--dry-run")
	require.Error(t, err)
	assert.EqualError(t, err, "user is required for updateMember")
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, errOut, "user is required for updateMember")
	assert.NotContains(t, out, "[DRY-RUN]")
	assert.Empty(t, env.requests())
}

func TestMembersUpdate_DryRunReportsMissingBody(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())

	_, _, err := runCmd(t, "", "members", "update", "u1", "--dry-run")
	require.Error(t, err)
	assert.EqualError(t, err, "body is required for updateMember")
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Empty(t, env.requests())
}

func TestMembersList_DryRunReportsQueryError(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())

	out, _, err := runCmd(t, "", "members", "list", "--filter", "active[$near]=1", "--dry-run")
	require.Error(t, err)
	assert.NotContains(t, out, "[DRY-RUN]")
	assert.Empty(t, env.requests())
}
