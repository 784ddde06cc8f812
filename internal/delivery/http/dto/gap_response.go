package dto

type OccupationRefResponse struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

type GapItemResponse struct {
	SkillID     string `json:"skill_id,omitempty"`
	SkillName   string `json:"skill_name"`
	FromLevel   int    `json:"from_level"`
	ToLevel     int    `json:"to_level"`
	Description string `json:"description,omitempty"`
}

type GapAnalysisResponse struct {
	From           OccupationRefResponse `json:"from"`
	To             OccupationRefResponse `json:"to"`
	Mode           string                `json:"mode"`
	GeneratedByLLM bool                  `json:"generated_by_llm"`
	Gaps           []GapItemResponse     `json:"gaps"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
