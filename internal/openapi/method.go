package openapi

import "net/http"

// Method is an HTTP method as it appears in a path item.
type Method string

const (
	MethodGet     Method = http.MethodGet
	MethodPut     Method = http.MethodPut
	MethodPost    Method = http.MethodPost
	MethodDelete  Method = http.MethodDelete
	MethodOptions Method = http.MethodOptions
	MethodHead    Method = http.MethodHead
	MethodPatch   Method = http.MethodPatch
	MethodTrace   Method = http.MethodTrace
	MethodConnect Method = http.MethodConnect
)

// crudOrder is the total order on methods from, used to deterministically
// break ties during toposort and seed-chain construction: POST < HEAD <
// TRACE < GET < PUT < PATCH < DELETE < OPTIONS < CONNECT.
var crudOrder = map[Method]int{
	MethodPost:    0,
	MethodHead:    1,
	MethodTrace:   2,
	MethodGet:     3,
	MethodPut:     4,
	MethodPatch:   5,
	MethodDelete:  6,
	MethodOptions: 7,
	MethodConnect: 8,
}

// CRUDRank returns m's position in the CRUD order. Unknown methods sort last.
func (m Method) CRUDRank() int {
	if r, ok := crudOrder[m]; ok {
		return r
	}
	return len(crudOrder)
}

// LessCRUD reports whether m sorts before other in CRUD order.
func (m Method) LessCRUD(other Method) bool {
	return m.CRUDRank() < other.CRUDRank()
}
