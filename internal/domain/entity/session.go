package entity

// SessionState состояние сессии пользователя
type SessionState string

const (
	StateMainMenu      SessionState = "main_menu"      // В главном меню
	StateAwaitingPhoto SessionState = "awaiting_photo" // Ожидание фото кабеля
	StateProcessing    SessionState = "processing"     // Обработка изображения
)

// Session хранит последнее загруженное изображение и результаты по нему.
// Результаты кэшируются, чтобы сохранение не перезапускало конвейер.
type Session struct {
	ID            int64          // идентификатор сессии (Telegram User ID, окно, запрос)
	ChatID        int64          // Telegram Chat ID, 0 для других хостов
	State         SessionState   // текущее состояние
	Input         Raster         // последнее загруженное изображение
	MeasureOutput *MeasureResult // последний результат измерения
	DefectOutput  *DefectResult  // последний результат поиска дефектов
	Revision      uint64         // растёт при каждой замене изображения
}

// NewSession создаёт сессию с начальным состоянием
func NewSession(id, chatID int64) *Session {
	return &Session{
		ID:     id,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}

// SetInput заменяет изображение и сбрасывает кэш результатов.
func (s *Session) SetInput(r Raster) {
	s.Input = r
	s.Revision++
	s.MeasureOutput = nil
	s.DefectOutput = nil
}

// HasInput сообщает, загружено ли изображение.
func (s *Session) HasInput() bool {
	return !s.Input.Empty()
}
