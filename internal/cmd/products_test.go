package cmd

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	productID   = "5c8f4b1e2a3d4c0012345678"
	productJSON = `{"id":"5c8f4b1e2a3d4c0012345678","name":"Annual VIP","slug":"vip-year","price":199,"period":365,"published":true}`
)

func atoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}

func countRequests(env *testEnv, method, path string) int {
	n := 0
	for _, r := range env.requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func TestProductsList_PublishedFilter(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("GET", "/products", jsonResponse(200, "["+productJSON+"]")))

	out := mustRun(t, "products", "list", "--published=false", "--sort", "-price")
	assert.Contains(t, out, "Annual VIP")
	assert.Contains(t, out, "199.00")

	req := env.last(t)
	assert.Equal(t, "false", req.Query.Get("published"))
	assert.Equal(t, "-price", req.Query.Get("_sort"))
}

func TestProductsList_UnsetBoolFilterIsOmitted(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("GET", "/products", jsonResponse(200, `[]`)))

	mustRun(t, "products", "list")
	_, ok := env.last(t).Query["published"]
	assert.False(t, ok)
}

func TestProductsGet_ByID(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("GET", "/products/"+productID, jsonResponse(200, productJSON)))

	out := mustRun(t, "products", "get", productID)
	assert.Contains(t, out, "Product "+productID)
	assert.Contains(t, out, "365 days")
	assert.Zero(t, countRequests(env, "GET", "/products"), "ids must not trigger a lookup")
}

func TestProductsGet_BySlugUsesCache(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().
		On("GET", "/products", jsonResponse(200, "["+productJSON+"]")).
		On("GET", "/products/"+productID, jsonResponse(200, productJSON)))

	mustRun(t, "products", "get", "vip-year")
	mustRun(t, "products", "get", "annual vip")

	assert.Equal(t, 1, countRequests(env, "GET", "/products"), "second lookup should hit the cache")
	assert.Equal(t, 2, countRequests(env, "GET", "/products/"+productID))
	assert.Equal(t, resolveListLimit, atoi(t, env.requests()[0].Query.Get("_limit")))
}

func TestProductsGet_NoCache(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().
		On("GET", "/products", jsonResponse(200, "["+productJSON+"]")).
		On("GET", "/products/"+productID, jsonResponse(200, productJSON)))
	t.Setenv("STORE_NO_CACHE", "1")

	mustRun(t, "products", "get", "vip-year")
	mustRun(t, "products", "get", "vip-year")
	assert.Equal(t, 2, countRequests(env, "GET", "/products"))
}

func TestProductsGet_UnknownName(t *testing.T) {
	setupTestEnv(t, newRouteHandler().On("GET", "/products", jsonResponse(200, "["+productJSON+"]")))

	_, errOut, err := runCmd(t, "", "products", "get", "zzzz-nothing")
	require.Error(t, err)
	assert.Contains(t, errOut, "zzzz-nothing")
}

func TestProductsUpdate_InvalidatesCache(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().
		On("GET", "/products", jsonResponse(200, "["+productJSON+"]")).
		On("GET", "/products/"+productID, jsonResponse(200, productJSON)).
		On("PUT", "/products/"+productID, jsonResponse(200, productJSON)))

	mustRun(t, "products", "get", "vip-year")
	mustRun(t, "products", "update", "vip-year", "--price", "99")
	mustRun(t, "products", "get", "vip-year")

	assert.Equal(t, 2, countRequests(env, "GET", "/products"), "update must drop the cached list")

	var put recordedRequest
	for _, r := range env.requests() {
		if r.Method == "PUT" {
			put = r
		}
	}
	assert.EqualValues(t, 99, put.JSON(t)["price"])
}

func TestProductsCreate_DryRun(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())

	out := mustRun(t, "products", "create", "--name", "Monthly", "--price", "19.9", "--dry-run")
	assert.Contains(t, out, "POST")
	assert.Contains(t, out, "/products")
	assert.Empty(t, env.requests())
}

func TestProductsCreate_DryRunJSON(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())

	out := mustRun(t, "products", "create", "--name", "Monthly", "--dry-run", "-o", "json")
	obj := decodeObject(t, out)
	assert.Equal(t, true, obj["dry_run"])
	requests, ok := obj["requests"].([]any)
	require.True(t, ok)
	assert.Len(t, requests, 1)
	assert.Empty(t, env.requests())
}

func TestProductsDelete_Yes(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("DELETE", "/products/"+productID, jsonResponse(200, ``)))

	out := mustRun(t, "products", "delete", productID, "-y")
	assert.Contains(t, out, "Deleted product "+productID)
	assert.Equal(t, 1, countRequests(env, "DELETE", "/products/"+productID))
}
