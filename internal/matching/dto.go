// internal/matching/dto.go
package matching

// DTOs for API requests/responses

type GenerateMatchesDTO struct {
	// PromptID is optional; the current week's prompt is used when empty.
	PromptID string `json:"prompt_id,omitempty" validate:"omitempty,max=16"`
}

type GenerateMatchesResponseDTO struct {
	PromptID     string `json:"prompt_id"`
	MatchedUsers int    `json:"matched_users"`
}

type RevealMatchDTO struct {
	Index *int `json:"index" validate:"required,min=0,max=2"`
}
