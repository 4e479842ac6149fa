package handler

type ContextKey string

var (
	SubCtxKey    ContextKey = "sub"
	ClaimsCtxKey ContextKey = "claims"
	MyProfileCtx ContextKey = "myProfile"
	QueryCtx     ContextKey = "query"
)
