package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go-event-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

var (
	InvalidJSON = `{"invalid": json}`
)

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

// stubAuth 直接注入 actor，讓 handler 測試不需要簽發真的 token
func stubAuth(actor auth.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.SetActor(c, actor)
		c.Next()
	}
}
