package models

// NotificationLevel тип уведомления для пользователя
type NotificationLevel string

const (
	NotificationLoading NotificationLevel = "loading"
	NotificationSuccess NotificationLevel = "success"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification кратковременное уведомление (аналог toast)
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}
