package model

import (
	"github.com/pkg/errors"
)

type Payload interface {
	ToMap() (map[string]any, error)
}

// Map is a raw request body.
type Map map[string]any

func (m Map) ToMap() (map[string]any, error) {
	result := make(map[string]any, len(m))
	for key, value := range m {
		result[key] = value
	}
	return result, nil
}

type CreatePayload struct {
	Ticket  Ticket
	Article Article

	// DynamicField is either a single {"Name","Value"} object or a list of them.
	DynamicField any
	Attachment   []map[string]any
	TimeUnit     *int
}

func (p CreatePayload) ToMap() (map[string]any, error) {
	ticket, err := p.Ticket.ToMap()
	if err != nil {
		return nil, errors.WithMessage(err, "serialize ticket")
	}
	article, err := p.Article.ToMap()
	if err != nil {
		return nil, errors.WithMessage(err, "serialize article")
	}

	result := map[string]any{
		"Ticket":  ticket,
		"Article": article,
	}
	putExtras(result, p.DynamicField, p.Attachment, p.TimeUnit)
	return result, nil
}

// UpdatePayload is the body of ticket_update; every part is optional and
// the ticket is always validated as partial.
type UpdatePayload struct {
	Ticket  *Ticket
	Article *Article

	DynamicField any
	Attachment   []map[string]any
	TimeUnit     *int
}

func (p UpdatePayload) ToMap() (map[string]any, error) {
	result := make(map[string]any)
	if p.Ticket != nil {
		ticket := *p.Ticket
		ticket.Partial = true
		value, err := ticket.ToMap()
		if err != nil {
			return nil, errors.WithMessage(err, "serialize ticket")
		}
		result["Ticket"] = value
	}
	if p.Article != nil {
		value, err := p.Article.ToMap()
		if err != nil {
			return nil, errors.WithMessage(err, "serialize article")
		}
		result["Article"] = value
	}
	putExtras(result, p.DynamicField, p.Attachment, p.TimeUnit)
	return result, nil
}

func putExtras(result map[string]any, dynamicField any, attachment []map[string]any, timeUnit *int) {
	if dynamicField != nil {
		result["DynamicField"] = dynamicField
	}
	if attachment != nil {
		result["Attachment"] = attachment
	}
	putOptional(result, "TimeUnit", timeUnit)
}

// Merge serializes base and puts overrides on top of it; overrides always win.
// A nil base yields just the overrides.
func Merge(base Payload, overrides map[string]any) (map[string]any, error) {
	result := make(map[string]any)
	if base != nil {
		value, err := base.ToMap()
		if err != nil {
			return nil, err
		}
		result = value
	}
	for key, value := range overrides {
		result[key] = value
	}
	return result, nil
}
