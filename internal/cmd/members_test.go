package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const memberJSON = `{"user":"u1","active":true,"period":[{"start":"2024-01-01","end":"2024-12-31"}],"updatedAt":"2024-02-01"}`

func TestMembersList_TextWithFilters(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().
		On("GET", "/members", listResponse("7", "["+memberJSON+"]")))

	out := mustRun(t, "members", "list", "--user", "u1", "--user", "u2", "--active", "--limit", "1")

	assert.Contains(t, out, "USER")
	assert.Contains(t, out, "u1")
	assert.Contains(t, out, "2024-01-01..2024-12-31")
	assert.Contains(t, out, "Showing 1 of 7")

	req := env.last(t)
	assert.Equal(t, []string{"u1", "u2"}, req.Query["user"])
	assert.Equal(t, "true", req.Query.Get("active"))
	assert.Equal(t, "1", req.Query.Get("_limit"))
	assert.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))
}

func TestMembersList_JSONEnvelope(t *testing.T) {
	setupTestEnv(t, newRouteHandler().
		On("GET", "/members", listResponse("1", "["+memberJSON+"]")))

	out := mustRun(t, "members", "list", "-o", "json")
	items := decodeItems(t, out)
	require.Len(t, items, 1)
	assert.Equal(t, "u1", items[0]["user"])

	meta := decodeObject(t, out)["meta"].(map[string]any)
	assert.EqualValues(t, 1, meta["total"])
}

func TestMembersList_EmptyJSONIsArray(t *testing.T) {
	setupTestEnv(t, newRouteHandler().On("GET", "/members", jsonResponse(200, `[]`)))

	out := mustRun(t, "members", "list", "--json")
	assert.Contains(t, out, `"items": []`)
}

func TestMembersList_EmptyTextMessage(t *testing.T) {
	setupTestEnv(t, newRouteHandler().On("GET", "/members", jsonResponse(200, `[]`)))

	out, errOut, err := runCmd(t, "", "members", "list")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))
	assert.Contains(t, errOut, "No members found")
}

func TestMembersList_FilterFlag(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("GET", "/members", jsonResponse(200, `[]`)))

	mustRun(t, "members", "list", "--filter", "createdAt[$gt]=2024-01-01", "--where", "tag=a", "--filter", "tag=b")

	req := env.last(t)
	assert.Equal(t, "2024-01-01", req.Query.Get("createdAt_gt"))
	assert.Equal(t, []string{"a", "b"}, req.Query["tag"])
}

func TestMembersGet(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("GET", "/members/u1", jsonResponse(200, memberJSON)))

	out := mustRun(t, "members", "get", "u1")
	assert.Contains(t, out, "Member u1")
	assert.Contains(t, out, "Active:")
	assert.Equal(t, "/members/u1", env.last(t).Path)
}

func TestMembersGet_NotFoundExitCode(t *testing.T) {
	setupTestEnv(t, newRouteHandler())

	_, errOut, err := runCmd(t, "", "members", "get", "nobody")
	require.Error(t, err)
	assert.Equal(t, exitNotFound, ExitCode(err))
	assert.NotEmpty(t, errOut)
}

func TestMembersGet_RejectsPathSeparators(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())

	_, _, err := runCmd(t, "", "members", "get", "../admin")
	require.Error(t, err)
	assert.Empty(t, env.requests())
}

func TestMembersCreate_FromFlags(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("POST", "/members", jsonResponse(201, memberJSON)))

	out := mustRun(t, "members", "create", "--user", "u1", "--active")
	assert.Contains(t, out, "Created member u1")

	body := env.last(t).JSON(t)
	assert.Equal(t, "u1", body["user"])
	assert.Equal(t, true, body["active"])
}

func TestMembersCreate_MissingBody(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())

	_, errOut, err := runCmd(t, "", "members", "create")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, errOut, "--body")
	assert.Empty(t, env.requests(), "no request may be sent without a body")
}

func TestMembersUpdate_FlagOverridesBody(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("PUT", "/members/u1", jsonResponse(200, memberJSON)))

	mustRun(t, "members", "update", "u1", "--body", `{"active":true,"note":"x"}`, "--active=false")

	body := env.last(t).JSON(t)
	assert.Equal(t, false, body["active"])
	assert.Equal(t, "x", body["note"])
}

func TestMembersUpdate_BodyFromStdin(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("PUT", "/members/u1", jsonResponse(200, memberJSON)))

	_, _, err := runCmd(t, `{"active":false}`, "members", "update", "u1", "--body", "@-")
	require.NoError(t, err)
	assert.Equal(t, false, env.last(t).JSON(t)["active"])
}

func TestMembersDelete_Confirmed(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("DELETE", "/members/u1", jsonResponse(200, ``)))

	out, _, err := runCmd(t, "y\n", "members", "delete", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted member u1")
	assert.Equal(t, "DELETE", env.last(t).Method)
}

func TestMembersDelete_Declined(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("DELETE", "/members/u1", jsonResponse(200, ``)))

	_, errOut, err := runCmd(t, "n\n", "members", "delete", "u1")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Cancelled.")
	assert.Empty(t, env.requests())
}

func TestMembersDelete_JSONRequiresYes(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("DELETE", "/members/u1", jsonResponse(200, ``)))

	_, _, err := runCmd(t, "", "members", "delete", "u1", "-o", "json")
	require.Error(t, err)
	assert.Empty(t, env.requests())

	out := mustRun(t, "members", "delete", "u1", "-o", "json", "--yes")
	obj := decodeObject(t, out)
	assert.Equal(t, true, obj["deleted"])
	assert.Equal(t, "u1", obj["id"])
}
