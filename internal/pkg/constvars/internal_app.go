package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "HLTHF_SVC_"
)

// Lock key prefixes for the Redis locker. Provider locks serialize
// availability writes for one provider; the leader lock elects a single
// maintenance worker across instances.
const (
	LockKeyProviderPrefix = "availability:lock:provider:"
	LockKeyWorkerLeader   = "slotmaint:leader"
)

const (
	DateLayoutYYYYMMDD = "2006-01-02"
	TimeLayoutHHMM     = "15:04"
)
