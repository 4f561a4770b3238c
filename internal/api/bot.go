package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "cable-inspector/internal/application"
	"cable-inspector/internal/domain/entity"
	apperrors "cable-inspector/internal/errors"
	"cable-inspector/internal/logger"
)

const (
	msgStart = `👋 Привет! Я бот для контроля кабеля.

📸 Отправьте фото кабеля, и я измерю его диаметр и найду дефекты оболочки: проколы, порезы и царапины.

📋 Команды:
/check — начать проверку кабеля
/measure — измерить диаметр на последнем фото
/defects — найти дефекты на последнем фото
/inspect — полный отчёт по последнему фото
/help — справка
/cancel — отменить текущую операцию
/close — забыть загруженное фото`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото кабеля
2️⃣ Бот измерит диаметр на трёх строках и найдёт дефекты
3️⃣ Вы получите размеченные фото и текстовый отчёт

💡 Рекомендации:
• Кабель должен идти сверху вниз через весь кадр
• Используйте тёмный однотонный фон
• Фото должно быть чётким

📋 Команды:
/check — начать проверку
/measure, /defects, /inspect — повторить анализ последнего фото
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото кабеля для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgClosed          = "🗑 Фото удалено. Отправьте новое фото кабеля."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото кабеля для проверки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgNoImage         = "📭 Фото ещё не загружено. Сначала отправьте фото кабеля."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается, подождите."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgBadImage        = "⚠️ Не удалось прочитать изображение. Отправьте фото в формате JPEG или PNG."
)

// processingTimeout ограничивает время анализа одного фото.
const processingTimeout = 2 * time.Minute

// sender: часть tgbotapi.BotAPI, через которую бот отвечает.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// fetchFunc скачивает файл Telegram по FileID.
type fetchFunc func(fileID string) ([]byte, error)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	out      sender
	fetch    fetchFunc
	sessions *app.SessionService
	inspect  *app.InspectionService
}

// NewBot создаёт нового бота
func NewBot(token string, sessions *app.SessionService, inspect *app.InspectionService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.WithField("account", api.Self.UserName).Info("Authorized on Telegram")

	b := newBot(api, nil, sessions, inspect)
	b.api = api
	b.fetch = b.downloadFile
	return b, nil
}

func newBot(out sender, fetch fetchFunc, sessions *app.SessionService, inspect *app.InspectionService) *Bot {
	return &Bot{
		out:      out,
		fetch:    fetch,
		sessions: sessions,
		inspect:  inspect,
	}
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
	if msg.From == nil || msg.Chat == nil {
		return
	}

	session, err := b.sessions.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		logger.WithError(err).Error("Error getting session")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, session)
		return
	}

	// Обработка фото: сжатое фото или изображение, присланное файлом
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, session, msg.Photo[len(msg.Photo)-1].FileID)
		return
	}
	if msg.Document != nil {
		b.handlePhoto(ctx, msg, session, msg.Document.FileID)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	logger.WithFields(map[string]interface{}{
		"user":    userID,
		"command": msg.Command(),
	}).Info("Command received")

	switch msg.Command() {
	case "start":
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		b.setState(ctx, userID, chatID, entity.StateAwaitingPhoto)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		b.sendMessage(chatID, msgCancelled)

	case "close":
		if err := b.inspect.Close(ctx, userID); err != nil {
			logger.WithError(err).Error("Error closing session")
		}
		b.sendMessage(chatID, msgClosed)

	case "measure", "defects", "inspect":
		if session.State == entity.StateProcessing {
			b.sendMessage(chatID, msgBusy)
			return
		}
		b.analyze(ctx, userID, chatID, msg.Command())

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto принимает фото как новый вход сессии и сразу строит полный отчёт
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, session *entity.Session, fileID string) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if session.State == entity.StateProcessing {
		b.sendMessage(chatID, msgBusy)
		return
	}

	b.setState(ctx, userID, chatID, entity.StateProcessing)
	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.fetch(fileID)
	if err != nil {
		logger.WithError(err).WithField("user", userID).Error("Error downloading photo")
		b.sendMessage(chatID, msgProcessingError)
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		return
	}

	logger.WithFields(map[string]interface{}{"user": userID, "bytes": len(imageData)}).Info("Received image")

	if _, err := b.inspect.Accept(ctx, userID, chatID, imageData); err != nil {
		logger.WithError(err).WithField("user", userID).Error("Error decoding photo")
		b.sendMessage(chatID, msgBadImage)
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		return
	}

	b.analyze(ctx, userID, chatID, "inspect")
}

// analyze запускает выбранный конвейер и отправляет размеченные фото
func (b *Bot) analyze(ctx context.Context, userID, chatID int64, command string) {
	ctx, cancel := context.WithTimeout(ctx, processingTimeout)
	defer cancel()

	b.setState(ctx, userID, chatID, entity.StateProcessing)
	defer b.setState(ctx, userID, chatID, entity.StateMainMenu)

	var (
		result = &entity.InspectionResult{}
		err    error
	)

	switch command {
	case "measure":
		result.Measure, err = b.inspect.Measure(ctx, userID, chatID)
	case "defects":
		result.Defects, err = b.inspect.FindDefects(ctx, userID, chatID)
	default:
		result, err = b.inspect.Inspect(ctx, userID, chatID)
	}
	if err != nil {
		b.replyError(chatID, err)
		return
	}

	if result.Measure != nil {
		b.sendImage(chatID, "measure.png", result.Measure.Annotated, "Диаметр кабеля")
	}
	if result.Defects != nil {
		b.sendImage(chatID, "defects.png", result.Defects.Annotated, "Дефекты оболочки")
	}

	desc, err := b.inspect.Describe(ctx, result)
	if err != nil {
		logger.WithError(err).Error("Error describing result")
		return
	}
	b.sendMessage(chatID, desc.Text)
}

func (b *Bot) replyError(chatID int64, err error) {
	if apperrors.IsType(err, apperrors.ErrorTypePrecondition) {
		b.sendMessage(chatID, msgNoImage)
		return
	}
	logger.WithError(err).WithField("chat", chatID).Error("Error processing image")
	b.sendMessage(chatID, msgProcessingError)
}

func (b *Bot) setState(ctx context.Context, userID, chatID int64, state entity.SessionState) {
	if _, err := b.sessions.SetState(ctx, userID, chatID, state); err != nil {
		logger.WithError(err).Error("Error saving session")
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendImage кодирует растр в PNG и отправляет его фотографией
func (b *Bot) sendImage(chatID int64, name string, r entity.Raster, caption string) {
	data, err := b.inspect.EncodeOutput(r, ".png")
	if err != nil {
		logger.WithError(err).Error("Error encoding image")
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	photo.Caption = caption
	if _, err := b.out.Send(photo); err != nil {
		logger.WithError(err).Error("Error sending photo")
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.out.Send(msg); err != nil {
		logger.WithError(err).Error("Error sending message")
	}
}
