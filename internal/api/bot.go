package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "dough-vision/internal/application"
	"dough-vision/internal/container"
	"dough-vision/internal/domain/entity"
	"dough-vision/internal/monitoring"
)

const (
	msgStart = `👋 Привет! Я бот контроля размеров тестовых заготовок.

Сначала обучите меня цвету теста на эталонном фото, затем присылайте фото для проверки.

📋 Команды:
/teach — обучение по размеченному фото
/check — проверка фото
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ /teach dough 10 20 50 40; background 0 0 30 30
   Разметка: метка и прямоугольник x y ширина высота, области через «;».
   Многоугольник: /teach dough poly 10,10 60,12 58,50 12,48
   Метки со словами ignore, background, reject, exclude считаются фоном.
   Затем отправьте эталонное фото.
2️⃣ /check — и отправьте фото для проверки.
   /check x y w h — проверить только указанную область.

⚙️ Настройки:
/calibrate 4.2 — пикселей на мм
/reference 85.6 — калибровка по эталону известной длины (мм), затем фото
/target 180 200 10 12 — ширина, высота, допуски в мм
/fast on|off — быстрый режим
/count 12 — ожидаемое число изделий, 0 — не проверять

📋 Прочее:
/rules — выученные правила
/history — последние проверки
/cancel — отменить операцию`

	msgAwaitingTeachPhoto = "📸 Разметка принята (%d обл.). Отправьте эталонное фото."
	msgAwaitingPhoto      = "📸 Отправьте фото для проверки."
	msgAwaitingReference  = "📏 Отправьте фото эталона длиной %.1f мм."
	msgCancelled          = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgNothingToCancel    = "ℹ️ Нечего отменять."
	msgSendPhoto          = "📸 Пожалуйста, отправьте фото или команду. /help — справка."
	msgUnknownCommand     = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing         = "⏳ Обрабатываю изображение..."
	msgBusy               = "⏳ Предыдущее изображение ещё обрабатывается."
	msgProcessingError    = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgUsageTeach         = "⚠️ Формат: /teach метка x y w h; метка poly x1,y1 x2,y2 x3,y3"
	msgUsageCheck         = "⚠️ Формат: /check или /check x y w h"
	msgUsageCalibrate     = "⚠️ Формат: /calibrate пикселей_на_мм"
	msgUsageReference     = "⚠️ Формат: /reference длина_мм"
	msgUsageTarget        = "⚠️ Формат: /target ширина высота [допуск | допуск_ш допуск_в]"
	msgUsageFast          = "⚠️ Формат: /fast on или /fast off"
	msgUsageCount         = "⚠️ Формат: /count число"
	msgCalibration        = "📐 Калибровка: %.4f пикс/мм, цель %.1f × %.1f мм, допуск ±%.1f / ±%.1f мм"
	msgNotCalibrated      = "⚠️ Масштаб не откалиброван: 1 пикс = 1 мм."
	msgFastMode           = "⚡ Быстрый режим: %s"
	msgExpectedCount      = "🔢 Ожидаемое число изделий: %d"
	msgExpectedCountOff   = "🔢 Проверка количества отключена."

	historyLimit = 10
)

// Bot представляет Telegram-бота
type Bot struct {
	api *tgbotapi.BotAPI
	app *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	monitoring.Logf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api: api,
		app: c,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
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
	user, err := b.app.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		monitoring.Logf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	args := msg.CommandArguments()

	switch msg.Command() {
	case "start":
		b.app.UserService.Cancel(ctx, user.ID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "teach":
		regions, err := parseRegions(args)
		if err != nil {
			b.sendMessage(chatID, msgUsageTeach)
			return
		}
		if _, err := b.app.UserService.BeginTeach(ctx, user.ID, chatID, regions); err != nil {
			b.sendMessage(chatID, errorText(err))
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(msgAwaitingTeachPhoto, len(regions)))

	case "check":
		roi, err := parseROI(args)
		if err != nil {
			b.sendMessage(chatID, msgUsageCheck)
			return
		}
		b.app.UserService.BeginInspect(ctx, user.ID, chatID, roi)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "calibrate":
		pxPerMm, err := parsePositiveFloat(args)
		if err != nil {
			b.sendMessage(chatID, msgUsageCalibrate)
			return
		}
		cal, err := b.app.CalibrationService.SetPixelsPerMm(ctx, pxPerMm)
		b.replyCalibration(chatID, cal, err)

	case "reference":
		lengthMm, err := parsePositiveFloat(args)
		if err != nil {
			b.sendMessage(chatID, msgUsageReference)
			return
		}
		b.app.UserService.BeginReference(ctx, user.ID, chatID, lengthMm)
		b.sendMessage(chatID, fmt.Sprintf(msgAwaitingReference, lengthMm))

	case "target":
		current, err := b.app.CalibrationService.Current(ctx)
		if err != nil {
			b.sendMessage(chatID, errorText(err))
			return
		}
		cal, err := parseTarget(args, current.Calibration)
		if err != nil {
			b.sendMessage(chatID, msgUsageTarget)
			return
		}
		cal, err = b.app.CalibrationService.SetTargetDimensions(ctx, cal.TargetWidth, cal.TargetHeight, cal.WidthTolerance, cal.HeightTolerance)
		b.replyCalibration(chatID, cal, err)

	case "fast":
		enabled, err := parseToggle(args)
		if err != nil {
			b.sendMessage(chatID, msgUsageFast)
			return
		}
		if err := b.app.CalibrationService.SetFastMode(ctx, enabled); err != nil {
			b.sendMessage(chatID, errorText(err))
			return
		}
		state := "выключен"
		if enabled {
			state = "включен"
		}
		b.sendMessage(chatID, fmt.Sprintf(msgFastMode, state))

	case "count":
		n, err := parseCount(args, -1)
		if err != nil || n < 0 {
			b.sendMessage(chatID, msgUsageCount)
			return
		}
		b.app.InspectionService.SetExpectedCount(n)
		if n == 0 {
			b.sendMessage(chatID, msgExpectedCountOff)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(msgExpectedCount, n))

	case "rules":
		rules, err := b.app.InspectionService.Rules(ctx)
		if err != nil {
			b.sendMessage(chatID, errorText(err))
			return
		}
		desc, err := b.app.Reporter.DescribeRules(ctx, rules)
		if err != nil {
			b.sendMessage(chatID, errorText(err))
			return
		}
		b.sendMessage(chatID, desc.Text)

	case "history":
		limit, err := parseCount(args, historyLimit)
		if err != nil {
			limit = historyLimit
		}
		history, err := b.app.InspectionService.History(ctx, limit)
		if err != nil {
			b.sendMessage(chatID, errorText(err))
			return
		}
		b.sendMessage(chatID, b.app.Reporter.DescribeHistory(history))

	case "cancel":
		cancelled := b.app.InspectionService.CancelInspection(user.ID)
		if user.State == entity.StateMainMenu && !cancelled {
			b.sendMessage(chatID, msgNothingToCancel)
			return
		}
		b.app.UserService.Cancel(ctx, user.ID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto обрабатывает входящее фото в зависимости от состояния пользователя
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	if user.State == entity.StateProcessing {
		b.sendMessage(chatID, msgBusy)
		return
	}

	// Запоминаем, что ждали, до смены состояния
	pending := *user
	b.app.UserService.SetState(ctx, user.ID, chatID, entity.StateProcessing)
	b.sendMessage(chatID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	go func() {
		defer b.app.UserService.Cancel(ctx, pending.ID, chatID)

		imageData, err := b.downloadFile(photo.FileID)
		if err != nil {
			monitoring.Logf("Error downloading photo: %v", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		monitoring.Logf("Received image: %d bytes, state %s", len(imageData), pending.State)

		switch pending.State {
		case entity.StateAwaitingTeachPhoto:
			b.processTeach(ctx, chatID, &pending, imageData)
		case entity.StateAwaitingReference:
			b.processReference(ctx, chatID, pending.ReferenceMm, imageData)
		default:
			b.processInspection(ctx, chatID, pending.ID, pending.ROI, imageData)
		}
	}()
}

func (b *Bot) processTeach(ctx context.Context, chatID int64, user *entity.User, imageData []byte) {
	out, err := b.app.InspectionService.CompleteTeach(ctx, user, imageData)
	if err != nil {
		monitoring.Logf("Error teaching: %v", err)
		b.sendMessage(chatID, errorText(err))
		return
	}
	b.sendMessage(chatID, b.app.Reporter.DescribeTeach(out.Report))
}

func (b *Bot) processReference(ctx context.Context, chatID int64, lengthMm float64, imageData []byte) {
	cal, err := b.app.CalibrationService.CalibrateFromReference(ctx, imageData, lengthMm)
	b.replyCalibration(chatID, cal, err)
}

func (b *Bot) processInspection(ctx context.Context, chatID, userID int64, roi image.Rectangle, imageData []byte) {
	outcome := <-b.app.InspectionService.StartInspection(ctx, userID, imageData, roi)
	if outcome.Err != nil {
		monitoring.Logf("Error inspecting: %v", outcome.Err)
		b.sendMessage(chatID, errorText(outcome.Err))
		return
	}

	text := outcome.Output.Result.Message
	if outcome.Output.Description != nil {
		text = outcome.Output.Description.Text
	}

	if len(outcome.Output.Highlighted) > 0 {
		b.sendPhoto(chatID, outcome.Output.Highlighted, text)
		return
	}
	b.sendMessage(chatID, text)
}

func (b *Bot) replyCalibration(chatID int64, cal entity.CalibrationState, err error) {
	if err != nil {
		b.sendMessage(chatID, errorText(err))
		return
	}
	text := fmt.Sprintf(msgCalibration,
		cal.PixelsPerMm, cal.TargetWidth, cal.TargetHeight, cal.WidthTolerance, cal.HeightTolerance)
	if !cal.IsCalibrated() {
		text += "\n" + msgNotCalibrated
	}
	b.sendMessage(chatID, text)
}

// errorText переводит ошибки в сообщения для оператора
func errorText(err error) string {
	switch {
	case errors.Is(err, entity.ErrUntrainedModel):
		return "📭 Модель не обучена. Сначала используйте /teach."
	case errors.Is(err, entity.ErrEmptyAnnotation):
		return "⚠️ Нет размеченных областей."
	case errors.Is(err, entity.ErrOutOfBounds):
		return "⚠️ Область выходит за пределы изображения."
	case errors.Is(err, entity.ErrInvalidCalibration):
		return "⚠️ Некорректная калибровка: " + err.Error()
	case errors.Is(err, app.ErrReferenceNotFound):
		return "⚠️ Эталон на фото не найден."
	case errors.Is(err, context.Canceled):
		return "❌ Обработка отменена."
	default:
		return msgProcessingError
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
		monitoring.Logf("Error sending message: %v", err)
	}
}

// sendPhoto отправляет изображение с подписью
func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileReader{Name: "result.jpg", Reader: bytes.NewReader(data)})
	photo.Caption = truncate(caption, 1024)
	if _, err := b.api.Send(photo); err != nil {
		monitoring.Logf("Error sending photo: %v", err)
		b.sendMessage(chatID, caption)
	}
}

// truncate обрезает текст до limit символов
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit-1])) + "…"
}
