package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "care-label-reader/internal/application"
	"care-label-reader/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для чтения символов ухода на этикетках одежды.

📸 Отправьте мне фото этикетки, и я расшифрую символы стирки, отбеливания, сушки, глажки и чистки.

📋 Команды:
/read — распознать этикетку
/expect N — сколько символов на этикетке (0 — не проверять)
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото этикетки
2️⃣ Бот найдёт строку символов и распознает каждый
3️⃣ Вы получите код и описание для каждого символа слева направо

💡 Рекомендации:
• Этикетка должна быть светлой и целиком в кадре
• Символы тёмные, без бликов
• Фото должно быть чётким

📋 Команды:
/read — распознать этикетку
/expect N — ожидаемое число символов
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото этикетки."
	msgCancelled       = "❌ Операция отменена. Отправьте /read для нового распознавания."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото этикетки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается."
	msgExpectUsage     = "ℹ️ Использование: /expect N, где N от 0 до %d."
	msgExpectSet       = "✅ Буду ждать символов на этикетке: %d."
	msgExpectReset     = "✅ Проверка числа символов отключена."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
)

const readTimeout = 30 * time.Second

// Bot представляет Telegram-бота
type Bot struct {
	api        *tgbotapi.BotAPI
	users      *app.UserService
	reader     *app.ReaderService
	client     *http.Client
	maxSymbols int
	log        *zap.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, reader *app.ReaderService, maxSymbols int, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	log.Info("authorized on account", zap.String("username", api.Self.UserName))

	return &Bot{
		api:        api,
		users:      users,
		reader:     reader,
		client:     &http.Client{Timeout: readTimeout},
		maxSymbols: maxSymbols,
		log:        log,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.Error("failed to get user", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		if user.State == entity.StateProcessing {
			b.sendMessage(msg.Chat.ID, msgBusy)
			return
		}
		b.handlePhoto(ctx, msg)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "read", "check":
		if _, err := b.users.BeginRead(ctx, userID, chatID); err != nil {
			b.log.Error("failed to begin read", zap.Int64("user_id", userID), zap.Error(err))
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "expect":
		n, ok := parseExpected(msg.CommandArguments(), b.maxSymbols)
		if !ok {
			b.sendMessage(chatID, fmt.Sprintf(msgExpectUsage, b.maxSymbols))
			return
		}
		if _, err := b.users.SetExpected(ctx, userID, chatID, n); err != nil {
			b.log.Error("failed to set expected", zap.Int64("user_id", userID), zap.Error(err))
			return
		}
		if n == 0 {
			b.sendMessage(chatID, msgExpectReset)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(msgExpectSet, n))

	case "cancel":
		if _, err := b.users.Cancel(ctx, userID, chatID); err != nil {
			b.log.Error("failed to cancel", zap.Int64("user_id", userID), zap.Error(err))
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto распознаёт фото этикетки
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.log.Error("failed to download photo", zap.String("file_id", photo.FileID), zap.Error(err))
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		b.setState(ctx, msg.From.ID, msg.Chat.ID, entity.StateMainMenu)
		return
	}

	out, err := b.reader.ProcessUserPhoto(ctx, msg.From.ID, msg.Chat.ID, imageData)
	if err != nil {
		b.log.Info("photo not read",
			zap.Int64("user_id", msg.From.ID),
			zap.Int("bytes", len(imageData)),
			zap.Error(err),
		)
		b.sendMessage(msg.Chat.ID, errorMessage(err))
		return
	}

	b.sendMessage(msg.Chat.ID, formatReading(out))
}

func (b *Bot) setState(ctx context.Context, userID, chatID int64, state entity.UserState) {
	if _, err := b.users.SetState(ctx, userID, chatID, state); err != nil {
		b.log.Error("failed to set state", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
