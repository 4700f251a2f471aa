package service

import (
	"sync"

	"github.com/SergeiKhy/chowlink/internal/models"
)

// Notifier получает кратковременные уведомления для пользователя
type Notifier interface {
	Notify(n models.Notification)
}

// NotifierFunc адаптер функции к Notifier
type NotifierFunc func(n models.Notification)

func (f NotifierFunc) Notify(n models.Notification) { f(n) }

// Discard отбрасывает уведомления
var Discard Notifier = NotifierFunc(func(models.Notification) {})

// Notifications копит уведомления одного запроса
type Notifications struct {
	mu    sync.Mutex
	items []models.Notification
}

func (n *Notifications) Notify(item models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
}

// All копия накопленных уведомлений
func (n *Notifications) All() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Notification(nil), n.items...)
}

// Levels уровни накопленных уведомлений по порядку
func (n *Notifications) Levels() []models.NotificationLevel {
	n.mu.Lock()
	defer n.mu.Unlock()
	levels := make([]models.NotificationLevel, 0, len(n.items))
	for _, item := range n.items {
		levels = append(levels, item.Level)
	}
	return levels
}

func notify(n Notifier, level models.NotificationLevel, message string) {
	if n == nil {
		return
	}
	n.Notify(models.Notification{Level: level, Message: message})
}
