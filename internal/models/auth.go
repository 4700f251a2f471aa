package models

// LoginRequest тело POST /api/login
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse ответ POST /api/login
type LoginResponse struct {
	Token string `json:"token"`
}

// APIError тело ответа бэкенда с ошибкой
type APIError struct {
	Message string `json:"message"`
}
