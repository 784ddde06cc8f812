package dto

type SkillResponse struct {
	SkillID   string `json:"skill_id"`
	SkillName string `json:"skill_name"`
	Level     *int   `json:"level"`
}

type ProfileResponse struct {
	Code        string          `json:"code"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Source      string          `json:"source"`
	Skills      []SkillResponse `json:"skills"`
}
