package types

import "github.com/go-playground/validator/v10"

// UpdateInputsRequest replaces the resume and/or job description text of a session.
// Nil fields are left untouched.
type UpdateInputsRequest struct {
	Resume         *string `json:"resume,omitempty" validate:"omitempty,max=200000"`
	JobDescription *string `json:"job_description,omitempty" validate:"omitempty,max=100000"`
}

// FetchJobRequest asks the server to ingest a job description from a posting URL.
type FetchJobRequest struct {
	URL        string `json:"url" validate:"required,http_url"`
	UseBrowser bool   `json:"use_browser,omitempty"`
}

// Validate validates the UpdateInputsRequest using the validator.
func (r *UpdateInputsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the FetchJobRequest using the validator.
func (r *FetchJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
