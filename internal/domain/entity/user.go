package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание фото этикетки
	StateProcessing    UserState = "processing"     // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID              int64     // Telegram User ID
	ChatID          int64     // Telegram Chat ID
	State           UserState // Текущее состояние пользователя
	ExpectedSymbols int       // Ожидаемое число символов на этикетке, 0 если не задано
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

// SetExpected задаёт ожидаемое число символов; отрицательные значения сбрасываются
func (u *User) SetExpected(n int) {
	if n < 0 {
		n = 0
	}
	u.ExpectedSymbols = n
}
