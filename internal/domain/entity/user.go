package entity

import "image"

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu             UserState = "main_menu"              // В главном меню
	StateAwaitingTeachPhoto   UserState = "awaiting_teach_photo"   // Ожидание эталонного фото для обучения
	StateAwaitingInspectPhoto UserState = "awaiting_inspect_photo" // Ожидание фото для проверки
	StateAwaitingReference    UserState = "awaiting_reference"     // Ожидание фото эталона известной длины
	StateProcessing           UserState = "processing"             // Обработка изображения
)

// User представляет оператора бота
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя

	PendingRegions []AnnotatedRegion // разметка, ожидающая фото для обучения
	ReferenceMm    float64           // длина эталона для калибровки
	ROI            image.Rectangle   // область проверки, пустая — всё фото
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// Reset возвращает пользователя в главное меню и очищает незавершённую разметку
func (u *User) Reset() {
	u.State = StateMainMenu
	u.PendingRegions = nil
	u.ReferenceMm = 0
	u.ROI = image.Rectangle{}
}
