package domain

const (
	SessionIdField = "SessionID"
	ErrorField     = "Error"
)

type SessionCreateRequest struct {
	UserLogin string `json:"UserLogin"`
	Password  string `json:"Password"`
}

type SessionCreateResponse struct {
	SessionID string `json:"SessionID"`
}

type TicketGetQuery struct {
	SessionID     string
	DynamicFields bool
	AllArticles   bool
}

func (q TicketGetQuery) Params() map[string]any {
	return map[string]any{
		SessionIdField:  q.SessionID,
		"DynamicFields": boolFlag(q.DynamicFields),
		"AllArticles":   boolFlag(q.AllArticles),
	}
}

func boolFlag(value bool) int {
	if value {
		return 1
	}
	return 0
}
