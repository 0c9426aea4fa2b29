package middlewares

const (
	CtxUserID    = "auth.userID"
	CtxEmail     = "auth.email"
	CtxRequestID = "request_id"
)
