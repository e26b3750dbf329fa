package models

// Voice представляет голос синтеза речи в каталоге провайдера
type Voice struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
}

// DisplayName возвращает подпись для кнопки выбора голоса
func (v Voice) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	return v.ID
}

// UserSelection представляет выбранный пользователем голос
type UserSelection struct {
	UserID  int64  `json:"user_id" db:"user_id"`
	VoiceID string `json:"voice_id" db:"voice_id"`
}
