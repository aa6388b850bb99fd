// Command smoke drives a running portal through one chat conversation and the
// appointment and reminder flows, printing each response.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

var (
	baseURL = flag.String("base", "http://localhost:5000/api", "API base URL")
	userID  = flag.String("user", "smoke-test-user", "user id to mint a token for")
)

func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func mintToken(secret, subject string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func sendRequest(method, path, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, *baseURL+path, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 90 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

// step runs one request and returns the decoded "data" field.
func step(title, method, path, token string, body interface{}) map[string]interface{} {
	color.Yellow("\n%s", title)
	resp, raw, err := sendRequest(method, path, token, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}
	prettyPrint(raw)

	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	_ = json.Unmarshal(raw, &envelope)
	return envelope.Data
}

func main() {
	flag.Parse()
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		color.Red("JWT_SECRET is not set")
		os.Exit(1)
	}
	token, err := mintToken(secret, *userID)
	if err != nil {
		color.Red("Failed to mint token: %v", err)
		os.Exit(1)
	}

	color.Cyan("🚀 Health portal smoke run as %s", *userID)

	conv := step("[CHAT] 1. Start conversation", "POST", "/chat/conversations", token, map[string]string{})
	convID, _ := conv["conversationId"].(string)
	if convID == "" {
		color.Red("No conversation id returned")
		os.Exit(1)
	}

	step("[CHAT] 2. First turn", "POST", "/chat/message", token, map[string]string{
		"conversationId": convID,
		"message":        "I have had a mild headache for two days.",
	})
	step("[CHAT] 3. Follow-up uses the short-term window", "POST", "/chat/message", token, map[string]string{
		"conversationId": convID,
		"message":        "What did I say was bothering me?",
	})
	step("[CHAT] 4. Transcript", "GET", "/chat/conversations/"+convID+"/messages", token, nil)

	step("[APPOINTMENT] 5. Book", "POST", "/appointments/book", token, map[string]interface{}{
		"fullName":    "Smoke Test",
		"email":       "smoke@example.com",
		"phoneNumber": "0000000000",
		"department":  "General Medicine",
		"datetime":    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})

	step("[REMINDER] 6. Create (due in one minute)", "POST", "/reminders/create", token, map[string]interface{}{
		"message":      "Drink water",
		"scheduleTime": time.Now().Add(time.Minute).Format(time.RFC3339),
	})

	step("[NOTIFICATIONS] 7. Inbox", "GET", "/notifications", token, nil)

	color.Cyan("\n✅ Smoke run finished")
}
