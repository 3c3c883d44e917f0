package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "coin-gauge/internal/application"
	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
)

const (
	msgStart = `👋 Привет! Я бот для измерения диаметров монет по фото.

📐 Сначала откалибруйте камеру: /calibrate и фото шахматной доски.
📸 Потом отправляйте фото монет — я измерю каждую и проверю допуск.

📋 Команды:
/calibrate — калибровка по шахматной доске
/measure — измерить монеты на фото
/history — последние измерения
/cancel — отменить текущую операцию
/help — справка`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ /calibrate — отправьте фото шахматной доски, снятой той же камерой
2️⃣ Отправьте фото монет на том же фоне
3️⃣ Получите фото с разметкой: зелёным — в допуске, красным — нет

💡 Рекомендации:
• Снимайте при хорошем освещении
• Не двигайте камеру между калибровкой и измерением
• Фото должно быть чётким

📋 Команды:
/measure — измерить ещё одно фото
/history — последние измерения
/cancel — отменить операцию`

	msgAwaitingCalibration = "📐 Отправьте фото шахматной доски для калибровки."
	msgAwaitingScene       = "📸 Отправьте фото монет для измерения."
	msgNeedCalibration     = "📐 Камера ещё не откалибрована. Отправьте /calibrate и фото доски."
	msgCancelled           = "❌ Операция отменена. Отправьте /calibrate или /measure."
	msgUnknownCommand      = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing          = "⏳ Обрабатываю изображение..."
	msgCalibrationFailed   = "⚠️ Не удалось найти доску на фото. Попробуйте другой ракурс."
	msgNoCoins             = "🔍 Монеты на фото не найдены."
	msgProcessingError     = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgHistoryEmpty        = "📭 История измерений пуста."
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	users    *app.UserService
	sessions *app.SessionService
	history  port.MeasurementRepository
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, sessions *app.SessionService, history port.MeasurementRepository) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:      api,
		users:    users,
		sessions: sessions,
		history:  history,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	// Текстовое сообщение (не команда)
	if b.sessions.Calibrated(user.ID) {
		b.sendMessage(msg.Chat.ID, msgAwaitingScene)
	} else {
		b.sendMessage(msg.Chat.ID, msgNeedCalibration)
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "calibrate":
		b.users.BeginCalibration(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingCalibration)

	case "measure":
		if !b.sessions.Calibrated(user.ID) {
			b.sendMessage(msg.Chat.ID, msgNeedCalibration)
			return
		}
		b.users.SetState(ctx, user.ID, user.ChatID, entity.StateAwaitingScene)
		b.sendMessage(msg.Chat.ID, msgAwaitingScene)

	case "history":
		b.sendHistory(ctx, msg.Chat.ID)

	case "cancel":
		b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto обрабатывает входящее фото в зависимости от состояния пользователя
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	state := user.State

	b.users.SetState(ctx, user.ID, user.ChatID, entity.StateProcessing)
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		b.users.Cancel(ctx, user.ID, user.ChatID)
		return
	}

	switch {
	case state == entity.StateAwaitingCalibration:
		b.processCalibrationPhoto(ctx, msg.Chat.ID, user, imageData)

	case state == entity.StateAwaitingScene || b.sessions.Calibrated(user.ID):
		b.processScenePhoto(ctx, msg.Chat.ID, user, imageData)

	default:
		b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgNeedCalibration)
	}
}

// processCalibrationPhoto калибрует камеру по фото доски
func (b *Bot) processCalibrationPhoto(ctx context.Context, chatID int64, user *entity.User, imageData []byte) {
	if _, err := b.sessions.AcceptCalibrationPhoto(ctx, user.ID, user.ChatID, imageData); err != nil {
		log.Printf("Calibration failed: %v", err)
		if errors.Is(err, entity.ErrPatternNotFound) {
			b.sendMessage(chatID, msgCalibrationFailed)
		} else {
			b.sendMessage(chatID, msgProcessingError)
		}
		b.users.Cancel(ctx, user.ID, user.ChatID)
		return
	}

	b.sendMessage(chatID, "✅ Калибровка выполнена. "+msgAwaitingScene)
}

// processScenePhoto измеряет монеты на фото
func (b *Bot) processScenePhoto(ctx context.Context, chatID int64, user *entity.User, imageData []byte) {
	output, err := b.sessions.AcceptScenePhoto(ctx, user.ID, imageData)
	if err != nil {
		log.Printf("Measurement failed: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		b.users.SetState(ctx, user.ID, user.ChatID, entity.StateAwaitingScene)
		return
	}

	b.users.SetState(ctx, user.ID, user.ChatID, entity.StateAwaitingScene)

	if len(output.Report.Measurements) == 0 {
		b.sendMessage(chatID, msgNoCoins)
		return
	}

	caption := formatReport(output.Report)
	if len(output.Annotated) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "measured.png", Bytes: output.Annotated})
		photo.Caption = caption
		if _, err := b.api.Send(photo); err != nil {
			log.Printf("Error sending photo: %v", err)
			b.sendMessage(chatID, caption)
		}
		return
	}

	b.sendMessage(chatID, caption)
}

// sendHistory отправляет сводки последних прогонов
func (b *Bot) sendHistory(ctx context.Context, chatID int64) {
	if b.history == nil {
		b.sendMessage(chatID, msgHistoryEmpty)
		return
	}

	reports, err := b.history.Recent(ctx, 5)
	if err != nil {
		log.Printf("Error loading history: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	if len(reports) == 0 {
		b.sendMessage(chatID, msgHistoryEmpty)
		return
	}

	var sb strings.Builder
	sb.WriteString("🗂 Последние измерения:\n")
	for _, r := range reports {
		fmt.Fprintf(&sb, "%s — монет: %d, в допуске: %d, средний d = %.2f мм\n",
			r.TakenAt.Format("02.01 15:04"), r.Summary.Count, r.Summary.PassCount, r.Summary.MeanMM)
	}

	b.sendMessage(chatID, sb.String())
}

// formatReport строит текстовый отчёт по измерениям
func formatReport(report *entity.GaugeReport) string {
	var sb strings.Builder
	for _, m := range report.Measurements {
		verdict := "в допуске ✅"
		if !m.Passed {
			verdict = "вне допуска ❌"
		}
		fmt.Fprintf(&sb, "Монета %d: d = %.2f мм — %s\n", m.Index, m.DiameterMM, verdict)
	}
	fmt.Fprintf(&sb, "Итого: %d из %d в допуске", report.Summary.PassCount, report.Summary.Count)
	return sb.String()
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
		log.Printf("Error sending message: %v", err)
	}
}
