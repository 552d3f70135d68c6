package model

type Article struct {
	Subject     string `validate:"notblank"`
	Body        string `validate:"notblank"`
	ContentType string `validate:"notblank"`

	Charset    *string
	MimeType   *string
	SenderType *string
	From       *string
}

func (a Article) Validate() error {
	return validateStruct(a)
}

func (a Article) ToMap() (map[string]any, error) {
	err := a.Validate()
	if err != nil {
		return nil, err
	}

	result := map[string]any{
		"Subject":     a.Subject,
		"Body":        a.Body,
		"ContentType": a.ContentType,
	}
	putOptional(result, "Charset", a.Charset)
	putOptional(result, "MimeType", a.MimeType)
	putOptional(result, "SenderType", a.SenderType)
	putOptional(result, "From", a.From)
	return result, nil
}
