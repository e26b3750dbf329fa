package bot

// Messages содержит тексты ответов бота
type Messages struct{}

// NewMessages создает новый набор текстов
func NewMessages() *Messages {
	return &Messages{}
}

// ChooseVoice приглашение к выбору голоса
func (m *Messages) ChooseVoice() string {
	return "Выберите голос:"
}

// Help справка по использованию бота
func (m *Messages) Help() string {
	return "Отправьте текст для озвучки или используйте /voice для выбора голоса."
}

// VoiceSelected подтверждение выбора голоса
func (m *Messages) VoiceSelected() string {
	return "Голос выбран. Теперь отправьте текст для озвучки."
}

// ServiceOverloaded сообщение о недоступности сервиса синтеза
func (m *Messages) ServiceOverloaded() string {
	return "Сервис перегружен, попробуйте позже."
}

// SendFailed сообщение о неудачной отправке аудио
func (m *Messages) SendFailed() string {
	return "Не удалось отправить аудио. Попробуйте позже."
}

// UnknownCommand ответ на неизвестную команду
func (m *Messages) UnknownCommand() string {
	return "Неизвестная команда. Используйте /help."
}

// TooManyRequests предупреждение о превышении лимита запросов
func (m *Messages) TooManyRequests() string {
	return "⚠️ Слишком много запросов. Подождите минуту."
}
