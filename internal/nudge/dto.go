// internal/nudge/dto.go
package nudge

// DTOs for API requests/responses

type CreateNudgeDTO struct {
	To       string `json:"to" validate:"required,alphanum,max=16"`
	PromptID string `json:"prompt_id" validate:"required,max=16"`
}

type NudgeStatusParams struct {
	Other    string `validate:"required,alphanum,max=16"`
	PromptID string `validate:"required,max=16"`
}
