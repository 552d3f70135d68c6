package model

// Ticket is the "Ticket" object of create and update requests.
// Unset optional fields (nil) are omitted; explicit empty values are sent as is.
type Ticket struct {
	Title    string `validate:"notblank"`
	Queue    string `validate:"notblank"`
	State    string `validate:"notblank"`
	Priority string `validate:"notblank"`

	CustomerUser *string
	Type         *string
	Service      *string
	SLA          *string
	Owner        *string
	Responsible  *string

	// Partial marks a ticket used for updates: Title, Queue, State and Priority
	// become optional and are sent only when non-empty, but must not be blank when set.
	Partial bool `validate:"-"`
}

func NewUpdateTicket() Ticket {
	return Ticket{Partial: true}
}

func (t Ticket) Validate() error {
	if !t.Partial {
		return validateStruct(t)
	}
	for _, field := range t.requiredGroup() {
		err := validateField("Ticket."+field.name, field.value, "omitempty,"+notBlankTag)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t Ticket) ToMap() (map[string]any, error) {
	err := t.Validate()
	if err != nil {
		return nil, err
	}

	result := make(map[string]any)
	for _, field := range t.requiredGroup() {
		if t.Partial && field.value == "" {
			continue
		}
		result[field.name] = field.value
	}
	putOptional(result, "CustomerUser", t.CustomerUser)
	putOptional(result, "Type", t.Type)
	putOptional(result, "Service", t.Service)
	putOptional(result, "SLA", t.SLA)
	putOptional(result, "Owner", t.Owner)
	putOptional(result, "Responsible", t.Responsible)
	return result, nil
}

type namedValue struct {
	name  string
	value string
}

func (t Ticket) requiredGroup() []namedValue {
	return []namedValue{
		{name: "Title", value: t.Title},
		{name: "Queue", value: t.Queue},
		{name: "State", value: t.State},
		{name: "Priority", value: t.Priority},
	}
}
