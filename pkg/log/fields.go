package log

const (
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// set by the identity middleware
	FieldUserID = "user_id"

	FieldService = "service"
)

const HeaderRequestID = "X-Request-ID"
