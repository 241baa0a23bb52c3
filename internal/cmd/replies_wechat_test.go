package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	replyID    = "6a1b2c3d4e5f6a7b8c9d0e1f"
	repliesRaw = `[{"id":"6a1b2c3d4e5f6a7b8c9d0e1f","keyword":"hello","msgtype":"text","content":"Hi there","active":true,"index":1},
{"id":"6a1b2c3d4e5f6a7b8c9d0e2f","keyword":"price list","msgtype":"link","link":{"title":"Prices","url":"https://example.com/p"},"active":false,"index":2}]`
)

func TestRepliesList_ActiveFilter(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("GET", "/replies", jsonResponse(200, repliesRaw)))

	out := mustRun(t, "replies", "list", "--active", "--sort", "index")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "Hi there")
	assert.Contains(t, out, "Prices")
	assert.Equal(t, "true", env.last(t).Query.Get("active"))
}

func TestRepliesGet_ByKeyword(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().
		On("GET", "/replies", jsonResponse(200, repliesRaw)).
		On("GET", "/replies/"+replyID, jsonResponse(200, `{"id":"6a1b2c3d4e5f6a7b8c9d0e1f","keyword":"hello","content":"Hi there"}`)))

	out := mustRun(t, "replies", "get", "hello")
	assert.Contains(t, out, "Reply "+replyID)
	assert.Equal(t, 1, countRequests(env, "GET", "/replies/"+replyID))
}

func TestRepliesCreate_InvalidatesCache(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().
		On("GET", "/replies", jsonResponse(200, repliesRaw)).
		On("GET", "/replies/"+replyID, jsonResponse(200, `{"id":"6a1b2c3d4e5f6a7b8c9d0e1f"}`)).
		On("POST", "/replies", jsonResponse(201, `{"id":"6a1b2c3d4e5f6a7b8c9d0e3f"}`)))

	mustRun(t, "replies", "get", "hello")
	mustRun(t, "replies", "create", "--keyword", "bye", "--msgtype", "text", "--content", "See you", "--index", "3")
	mustRun(t, "replies", "get", "hello")

	assert.Equal(t, 2, countRequests(env, "GET", "/replies"))
	var post recordedRequest
	for _, r := range env.requests() {
		if r.Method == "POST" {
			post = r
		}
	}
	body := post.JSON(t)
	assert.Equal(t, "bye", body["keyword"])
	assert.EqualValues(t, 3, body["index"])
}

func TestRepliesDelete(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().On("DELETE", "/replies/"+replyID, jsonResponse(200, ``)))

	mustRun(t, "replies", "delete", replyID, "--yes")
	assert.Equal(t, 1, countRequests(env, "DELETE", "/replies/"+replyID))
}

func TestWechatSignature_SendsURLFilter(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().
		On("GET", "/wechat/signature", jsonResponse(200, `{"appId":"wx1","timestamp":"1700000000","nonceStr":"n","signature":"abc","jsApiList":["chooseWXPay"]}`)))

	out := mustRun(t, "wechat", "signature", "--url", "https://shop.example.com/pay?x=1")
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "chooseWXPay")
	assert.Equal(t, "https://shop.example.com/pay?x=1", env.last(t).Query.Get("url"))
}

func TestWechatSignature_RequiresURL(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())

	_, _, err := runCmd(t, "", "wechat", "signature")
	require.Error(t, err)
	assert.Empty(t, env.requests())
}

func TestWechatMsgSecCheck(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().
		On("GET", "/wechat/msgSecCheck", jsonResponse(200, `{"errcode":87014,"errMsg":"risky content"}`)))

	out := mustRun(t, "wechat", "msg-sec-check", "--content", "some text")
	assert.Contains(t, out, "rejected")
	assert.Contains(t, out, "87014")
	assert.Equal(t, "some text", env.last(t).Query.Get("content"))
}

func TestWechatPayment_ResolvesProduct(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler().
		On("GET", "/products", jsonResponse(200, "["+productJSON+"]")).
		On("POST", "/wechat/payment", jsonResponse(200, `{"appid":"wx1","timeStamp":"1","nonceStr":"n","package":"prepay_id=1","signType":"MD5","paySign":"sig"}`)))

	out := mustRun(t, "wechat", "payment", "--openid", "o1", "--product", "vip-year")
	assert.Contains(t, out, "prepay_id=1")

	body := env.last(t).JSON(t)
	assert.Equal(t, "o1", body["openid"])
	assert.Equal(t, productID, body["product"])
}

func TestWechatPayment_JSON(t *testing.T) {
	setupTestEnv(t, newRouteHandler().
		On("POST", "/wechat/payment", jsonResponse(200, `{"appid":"wx1","paySign":"sig"}`)))

	out := mustRun(t, "wechat", "payment", "--openid", "o1", "--product", productID, "--json")
	assert.Equal(t, "sig", decodeObject(t, out)["paySign"])
}
