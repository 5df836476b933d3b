package model

// CtxKeyAuthorizedUser marks a request that passed token authorization.
const CtxKeyAuthorizedUser = "ckau"

type CommonResponse[T any] struct {
	Success bool   `json:"success,omitempty"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
