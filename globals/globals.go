package globals

// Context keys
type ContextKey string

const SessionIDKey ContextKey = "sessionId"
