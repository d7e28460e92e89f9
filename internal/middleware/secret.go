// Package middleware provides HTTP middleware for the webhook API.
package middleware

import (
	"crypto/subtle"
	"net/http"
)

// TelegramSecret returns middleware enforcing the
// X-Telegram-Bot-Api-Secret-Token header Telegram attaches to webhook calls.
// An empty secret disables the check. Mismatches get 404 so probes learn
// nothing about the endpoint.
func TelegramSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				got := r.Header.Get("X-Telegram-Bot-Api-Secret-Token")
				if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
					http.NotFound(w, r)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
