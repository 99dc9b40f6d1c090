package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"UpNepa/internal/contracts"
)

type contextKey string

// userIDKey хранит идентификатор аутентифицированного пользователя в контексте запроса
const userIDKey contextKey = "user_id"

// HTTPHandler обрабатывает HTTP запросы сервиса
type HTTPHandler struct {
	users    contracts.UserRegistry
	auth     contracts.TokenService
	notifier contracts.PowerNotifier
}

// NewHTTPHandler создает новый HTTP обработчик
func NewHTTPHandler(users contracts.UserRegistry, auth contracts.TokenService, notifier contracts.PowerNotifier) *HTTPHandler {
	return &HTTPHandler{
		users:    users,
		auth:     auth,
		notifier: notifier,
	}
}

// Router собирает маршруты сервиса
func (h *HTTPHandler) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", h.IndexHandler()).Methods(http.MethodGet)
	router.HandleFunc("/register", h.RegisterHandler()).Methods(http.MethodPost)
	router.HandleFunc("/send", h.requireAuth(h.SendHandler())).Methods(http.MethodPost)
	return router
}

// IndexHandler обрабатывает запрос проверки живости сервиса
func (h *HTTPHandler) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": true,
		})
	}
}

// RegisterHandler обрабатывает регистрацию пользователя по имени.
// Повторная регистрация существующего имени возвращает ту же запись
// со свежим токеном.
func (h *HTTPHandler) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Username string `json:"username"`
		}

		if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Username == "" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"status":  false,
				"message": "This field is required",
			})
			return
		}

		user, err := h.users.Register(request.Username)
		if err != nil {
			log.Printf("[HTTP] Ошибка регистрации пользователя %q: %v", request.Username, err)
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"status": false,
			})
			return
		}

		token, err := h.auth.IssueToken(user)
		if err != nil {
			log.Printf("[HTTP] Ошибка выпуска токена для пользователя %q: %v", request.Username, err)
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"status": false,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": true,
			"user":   user,
			"token":  token,
		})
	}
}

// SendHandler обрабатывает запрос на отправку уведомления о состоянии
// электроснабжения аутентифицированному пользователю.
// Отказ (пользователь без привязанного чата) возвращается структурированным
// статусом, а не HTTP ошибкой.
func (h *HTTPHandler) SendHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			State *bool `json:"state"`
		}

		if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.State == nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"status":  false,
				"message": "This field is required",
			})
			return
		}

		userID, ok := r.Context().Value(userIDKey).(string)
		if !ok || userID == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"status":  false,
				"message": "Invalid token",
			})
			return
		}

		if err := h.notifier.NotifyPowerStatus(userID, *request.State); err != nil {
			if errors.Is(err, contracts.ErrInvalidUser) {
				writeJSON(w, http.StatusOK, map[string]interface{}{
					"status":  false,
					"message": "Invalid User",
				})
				return
			}

			// Сбой канала сообщений — операционная ошибка, пользователю
			// возвращается только факт отказа
			log.Printf("[HTTP] Ошибка отправки уведомления пользователю %s: %v", userID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"status": false,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": true,
		})
	}
}

// requireAuth проверяет JWT из заголовка Authorization и кладет
// идентификатор пользователя в контекст запроса
func (h *HTTPHandler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"status":  false,
				"message": "Authorization header is required",
			})
			return
		}

		userID, err := h.auth.ParseToken(header)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"status":  false,
				"message": "Invalid token",
			})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// writeJSON пишет JSON ответ с указанным статусом
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[HTTP] Ошибка записи ответа: %v", err)
	}
}
