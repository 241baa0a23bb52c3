package api

import (
	"net/http"
	"sort"
)

// Field names a required input of an operation. Path parameters use their
// placeholder name; FieldQuery and FieldBody refer to Request.Query and Request.Body.
type Field string

const (
	FieldQuery        Field = "query"
	FieldBody         Field = "body"
	FieldUser         Field = "user"
	FieldProductID    Field = "productId"
	FieldOrderID      Field = "orderId"
	FieldInvitationID Field = "invitationId"
	FieldReplyID      Field = "replyId"
)

// Namespaces.
const (
	NamespaceWechat     = "wechat"
	NamespaceMember     = "member"
	NamespaceProduct    = "product"
	NamespaceOrder      = "order"
	NamespaceSetting    = "setting"
	NamespaceStats      = "stats"
	NamespaceInvitation = "invitation"
	NamespaceFormID     = "formId"
	NamespaceReply      = "reply"
)

// Operation names.
const (
	OpCreatePayment  = "createPayment"
	OpGetSignature   = "getSignature"
	OpGetMsgSecCheck = "getMsgSecCheck"

	OpListMembers  = "listMembers"
	OpCreateMember = "createMember"
	OpGetMember    = "getMember"
	OpDeleteMember = "deleteMember"
	OpUpdateMember = "updateMember"

	OpListProducts  = "listProducts"
	OpCreateProduct = "createProduct"
	OpGetProduct    = "getProduct"
	OpDeleteProduct = "deleteProduct"
	OpUpdateProduct = "updateProduct"

	OpListOrders  = "listOrders"
	OpCreateOrder = "createOrder"
	OpGetOrder    = "getOrder"
	OpDeleteOrder = "deleteOrder"
	OpUpdateOrder = "updateOrder"

	OpGetSetting    = "getSetting"
	OpDeleteSetting = "deleteSetting"
	OpUpdateSetting = "updateSetting"

	OpCreateStats = "createStats"
	OpListStats   = "listStats"

	OpCreateInvitation  = "createInvitation"
	OpListInvitations   = "listInvitations"
	OpUpdateInvitations = "updateInvitations"
	OpGetInvitation     = "getInvitation"
	OpUpdateInvitation  = "updateInvitation"
	OpDeleteInvitation  = "deleteInvitation"

	OpCreateFormID = "createFormId"

	OpListReplies = "listReplies"
	OpCreateReply = "createReply"
	OpGetReply    = "getReply"
	OpDeleteReply = "deleteReply"
	OpUpdateReply = "updateReply"
)

// Operation is one entry of the endpoint catalogue.
type Operation struct {
	Namespace    string
	Name         string
	Method       string
	Path         string
	Required     []Field
	AcceptsQuery bool
	HasBody      bool
}

// IsWrite reports whether the operation sends a body.
func (op Operation) IsWrite() bool {
	return op.HasBody
}

// RequiresQuery reports whether the operation refuses a nil query.
func (op Operation) RequiresQuery() bool {
	for _, f := range op.Required {
		if f == FieldQuery {
			return true
		}
	}
	return false
}

// PathParams returns the path parameter names of the operation.
func (op Operation) PathParams() []string {
	return op.pathParams()
}

func list(ns, name, path string, required ...Field) Operation {
	return Operation{Namespace: ns, Name: name, Method: http.MethodGet, Path: path, Required: required, AcceptsQuery: true}
}

func get(ns, name, path string, key Field) Operation {
	return Operation{Namespace: ns, Name: name, Method: http.MethodGet, Path: path, Required: []Field{key}}
}

func del(ns, name, path string, key Field) Operation {
	return Operation{Namespace: ns, Name: name, Method: http.MethodDelete, Path: path, Required: []Field{key}}
}

func create(ns, name, path string) Operation {
	return Operation{Namespace: ns, Name: name, Method: http.MethodPost, Path: path, Required: []Field{FieldBody}, HasBody: true}
}

func update(ns, name, path string, key ...Field) Operation {
	return Operation{Namespace: ns, Name: name, Method: http.MethodPut, Path: path, Required: append(key, FieldBody), HasBody: true}
}

// Operations is the endpoint catalogue, grouped by namespace.
var Operations = []Operation{
	create(NamespaceWechat, OpCreatePayment, "/wechat/payment"),
	list(NamespaceWechat, OpGetSignature, "/wechat/signature", FieldQuery),
	list(NamespaceWechat, OpGetMsgSecCheck, "/wechat/msgSecCheck", FieldQuery),

	list(NamespaceMember, OpListMembers, "/members"),
	create(NamespaceMember, OpCreateMember, "/members"),
	get(NamespaceMember, OpGetMember, "/members/{user}", FieldUser),
	del(NamespaceMember, OpDeleteMember, "/members/{user}", FieldUser),
	update(NamespaceMember, OpUpdateMember, "/members/{user}", FieldUser),

	list(NamespaceProduct, OpListProducts, "/products"),
	create(NamespaceProduct, OpCreateProduct, "/products"),
	get(NamespaceProduct, OpGetProduct, "/products/{productId}", FieldProductID),
	del(NamespaceProduct, OpDeleteProduct, "/products/{productId}", FieldProductID),
	update(NamespaceProduct, OpUpdateProduct, "/products/{productId}", FieldProductID),

	list(NamespaceOrder, OpListOrders, "/orders"),
	create(NamespaceOrder, OpCreateOrder, "/orders"),
	get(NamespaceOrder, OpGetOrder, "/orders/{orderId}", FieldOrderID),
	del(NamespaceOrder, OpDeleteOrder, "/orders/{orderId}", FieldOrderID),
	update(NamespaceOrder, OpUpdateOrder, "/orders/{orderId}", FieldOrderID),

	get(NamespaceSetting, OpGetSetting, "/settings/{user}", FieldUser),
	del(NamespaceSetting, OpDeleteSetting, "/settings/{user}", FieldUser),
	update(NamespaceSetting, OpUpdateSetting, "/settings/{user}", FieldUser),

	create(NamespaceStats, OpCreateStats, "/stats"),
	list(NamespaceStats, OpListStats, "/stats", FieldQuery),

	create(NamespaceInvitation, OpCreateInvitation, "/invitations"),
	list(NamespaceInvitation, OpListInvitations, "/invitations"),
	update(NamespaceInvitation, OpUpdateInvitations, "/invitations"),
	get(NamespaceInvitation, OpGetInvitation, "/invitations/{invitationId}", FieldInvitationID),
	update(NamespaceInvitation, OpUpdateInvitation, "/invitations/{invitationId}", FieldInvitationID),
	del(NamespaceInvitation, OpDeleteInvitation, "/invitations/{invitationId}", FieldInvitationID),

	create(NamespaceFormID, OpCreateFormID, "/formIds"),

	list(NamespaceReply, OpListReplies, "/replies"),
	create(NamespaceReply, OpCreateReply, "/replies"),
	get(NamespaceReply, OpGetReply, "/replies/{replyId}", FieldReplyID),
	del(NamespaceReply, OpDeleteReply, "/replies/{replyId}", FieldReplyID),
	update(NamespaceReply, OpUpdateReply, "/replies/{replyId}", FieldReplyID),
}

var operationsByName = func() map[string]Operation {
	m := make(map[string]Operation, len(Operations))
	for _, op := range Operations {
		m[op.Name] = op
	}
	return m
}()

// LookupOperation finds a catalogue entry by name.
func LookupOperation(name string) (Operation, bool) {
	op, ok := operationsByName[name]
	return op, ok
}

// MustOperation is LookupOperation for names known at compile time.
func MustOperation(name string) Operation {
	op, ok := LookupOperation(name)
	if !ok {
		panic("api: unknown operation " + name)
	}
	return op
}

// OperationNames returns all operation names sorted.
func OperationNames() []string {
	names := make([]string, 0, len(Operations))
	for _, op := range Operations {
		names = append(names, op.Name)
	}
	sort.Strings(names)
	return names
}

// NamespaceOperations returns the catalogue entries of one namespace in
// catalogue order.
func NamespaceOperations(ns string) []Operation {
	var ops []Operation
	for _, op := range Operations {
		if op.Namespace == ns {
			ops = append(ops, op)
		}
	}
	return ops
}
