package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSMSFlow_WebhookParseToTransaction(t *testing.T) {
	app := setupApp(t)

	token, _, _ := app.registerUser(t, "sms@test.com", "password123")
	app.linkPhone(t, token, "+919876543210")

	// HDFC UPI debit with today's date so the transaction lands in the
	// current period.
	smsText := fmt.Sprintf("Sent Rs.549.00\\nFrom HDFC Bank A/C x2953\\nTo Swiggy\\nOn %s\\nRef 405722810717",
		time.Now().Format("02/01/06"))
	body := fmt.Sprintf(`{"phone_number":"+919876543210","text":"%s"}`, smsText)

	rec := app.webhookRequest(body)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)

	message := result["message"].(map[string]interface{})
	if message["status"] != "parsed" {
		t.Fatalf("expected parsed status, got %v", message["status"])
	}
	if message["matched_rule"] != "hdfc.upi_sent" {
		t.Errorf("expected hdfc.upi_sent rule, got %v", message["matched_rule"])
	}

	tx := result["transaction"].(map[string]interface{})
	if tx["amount"].(float64) != 54900 {
		t.Errorf("expected amount 54900 paise, got %v", tx["amount"])
	}
	if tx["merchant"] != "Swiggy" {
		t.Errorf("expected merchant Swiggy, got %v", tx["merchant"])
	}
	if tx["type"] != "expense" {
		t.Errorf("expected expense, got %v", tx["type"])
	}
	if tx["source"] != "sms" {
		t.Errorf("expected sms source, got %v", tx["source"])
	}
	if tx["category_id"].(float64) != 5 {
		t.Errorf("expected Food category (5), got %v", tx["category_id"])
	}
	if tx["account_ref"] != "2953" {
		t.Errorf("expected account ref 2953, got %v", tx["account_ref"])
	}

	// The transaction is visible through the normal listing.
	rec = app.request("GET", "/api/v1/transactions?source=sms", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	list := parseJSON(t, rec)
	data := list["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 SMS transaction, got %d", len(data))
	}

	// The stored message links back to the transaction.
	messageID := message["id"].(float64)
	rec = app.request("GET", fmt.Sprintf("/api/v1/sms/%.0f", messageID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get message failed: %d %s", rec.Code, rec.Body.String())
	}
	stored := parseJSON(t, rec)["message"].(map[string]interface{})
	if stored["transaction_id"] == nil {
		t.Error("expected stored message to reference the transaction")
	}
}

func TestSMSFlow_WebhookRejectsWrongKey(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest("POST", "/api/v1/webhooks/sms",
		strings.NewReader(`{"phone_number":"+919876543210","text":"Sent Rs.100.00"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "not-the-key")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "INVALID_API_KEY" {
		t.Errorf("expected INVALID_API_KEY, got %v", errObj["code"])
	}
}

func TestSMSFlow_WebhookUnknownPhone(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "nolink@test.com", "password123")

	rec := app.webhookRequest(`{"phone_number":"+911234567890","text":"Sent Rs.100.00 to somewhere"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "PHONE_NOT_LINKED" {
		t.Errorf("expected PHONE_NOT_LINKED, got %v", errObj["code"])
	}
}

func TestSMSFlow_WebhookIgnoresInactiveLink(t *testing.T) {
	app := setupApp(t)

	token, _, _ := app.registerUser(t, "paused@test.com", "password123")
	linkID := app.linkPhone(t, token, "+919876543210")

	rec := app.request("POST", fmt.Sprintf("/api/v1/phone-links/%.0f/deactivate", linkID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.webhookRequest(`{"phone_number":"+919876543210","text":"Sent Rs.100.00 to somewhere"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for paused link, got %d: %s", rec.Code, rec.Body.String())
	}

	// Reactivating restores ingestion.
	rec = app.request("POST", fmt.Sprintf("/api/v1/phone-links/%.0f/activate", linkID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("activate failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.webhookRequest(`{"phone_number":"+919876543210","text":"Sent Rs.100.00 to somewhere"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202 after reactivation, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSMSFlow_ReviewQueueClassify(t *testing.T) {
	app := setupApp(t)

	token, _, _ := app.registerUser(t, "review@test.com", "password123")
	app.linkPhone(t, token, "+919876543210")

	// A message no pattern matches lands in the review queue.
	rec := app.webhookRequest(`{"phone_number":"+919876543210","text":"Dear customer, your statement is ready for download."}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	message := result["message"].(map[string]interface{})
	if message["status"] != "review" {
		t.Fatalf("expected review status, got %v", message["status"])
	}
	if _, present := result["transaction"]; present {
		t.Fatal("expected no transaction for an unmatched message")
	}
	messageID := message["id"].(float64)

	// The queue shows it, and a review notification was raised.
	rec = app.request("GET", "/api/v1/sms/review", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("review queue failed: %d %s", rec.Code, rec.Body.String())
	}
	queue := parseJSON(t, rec)
	if len(queue["data"].([]interface{})) != 1 {
		t.Fatalf("expected 1 queued message, got %d", len(queue["data"].([]interface{})))
	}

	rec = app.request("GET", "/api/v1/notifications", "", token)
	notifications := parseJSON(t, rec)["data"].([]interface{})
	foundReview := false
	for _, n := range notifications {
		if n.(map[string]interface{})["kind"] == "sms_review" {
			foundReview = true
		}
	}
	if !foundReview {
		t.Error("expected an sms_review notification")
	}

	// Classifying creates the transaction and drains the queue.
	rec = app.request("POST", fmt.Sprintf("/api/v1/sms/%.0f/classify", messageID),
		`{"category_id":6,"type":"expense","amount":35000,"merchant":"Uber"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("classify failed: %d %s", rec.Code, rec.Body.String())
	}
	tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
	if tx["merchant"] != "Uber" {
		t.Errorf("expected merchant Uber, got %v", tx["merchant"])
	}
	if tx["source"] != "sms" {
		t.Errorf("expected sms source, got %v", tx["source"])
	}

	rec = app.request("GET", "/api/v1/sms/review", "", token)
	queue = parseJSON(t, rec)
	if len(queue["data"].([]interface{})) != 0 {
		t.Fatalf("expected empty queue after classify, got %d", len(queue["data"].([]interface{})))
	}

	// Already-classified messages cannot be classified again.
	rec = app.request("POST", fmt.Sprintf("/api/v1/sms/%.0f/classify", messageID),
		`{"category_id":6,"type":"expense","amount":35000}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double classify, got %d", rec.Code)
	}
}

func TestSMSFlow_ReviewQueueIgnore(t *testing.T) {
	app := setupApp(t)

	token, _, _ := app.registerUser(t, "ignore@test.com", "password123")
	app.linkPhone(t, token, "+919876543210")

	rec := app.webhookRequest(`{"phone_number":"+919876543210","text":"Your OTP for login is 482913. Do not share it."}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	message := parseJSON(t, rec)["message"].(map[string]interface{})
	messageID := message["id"].(float64)

	rec = app.request("POST", fmt.Sprintf("/api/v1/sms/%.0f/ignore", messageID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("ignore failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/sms/review", "", token)
	queue := parseJSON(t, rec)
	if len(queue["data"].([]interface{})) != 0 {
		t.Fatal("expected empty queue after ignore")
	}

	// No transaction was created.
	rec = app.request("GET", "/api/v1/transactions", "", token)
	list := parseJSON(t, rec)
	if len(list["data"].([]interface{})) != 0 {
		t.Fatal("expected no transactions after ignore")
	}

	rec = app.request("POST", fmt.Sprintf("/api/v1/sms/%.0f/ignore", messageID), "", token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double ignore, got %d", rec.Code)
	}
}

func TestSMSFlow_BudgetBreachNotification(t *testing.T) {
	app := setupApp(t)

	token, _, _ := app.registerUser(t, "breach@test.com", "password123")
	app.linkPhone(t, token, "+919876543210")

	// Budget from the start of the month so the parsed transaction date
	// falls inside the active window.
	startOfMonth := time.Now().UTC()
	startOfMonth = time.Date(startOfMonth.Year(), startOfMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
	budgetBody := fmt.Sprintf(`{"category_id":5,"name":"Food cap","amount":50000,"period":"monthly","start_date":%q}`,
		startOfMonth.Format(time.RFC3339))
	rec := app.request("POST", "/api/v1/budgets", budgetBody, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("budget create failed: %d %s", rec.Code, rec.Body.String())
	}

	// A 549 rupee Swiggy spend blows through the 500 rupee cap.
	smsText := fmt.Sprintf("Sent Rs.549.00\\nFrom HDFC Bank A/C x2953\\nTo Swiggy\\nOn %s\\nRef 405722810718",
		time.Now().Format("02/01/06"))
	rec = app.webhookRequest(fmt.Sprintf(`{"phone_number":"+919876543210","text":"%s"}`, smsText))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("ingest failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/notifications?unread_only=true", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("notifications failed: %d %s", rec.Code, rec.Body.String())
	}
	notifications := parseJSON(t, rec)["data"].([]interface{})
	var alert map[string]interface{}
	for _, n := range notifications {
		notif := n.(map[string]interface{})
		if notif["kind"] == "budget_alert" {
			alert = notif
		}
	}
	if alert == nil {
		t.Fatal("expected a budget_alert notification after the breach")
	}
	if !strings.Contains(alert["title"].(string), "Food cap") {
		t.Errorf("expected alert title to name the budget, got %v", alert["title"])
	}

	// Budget progress reflects the overspend.
	rec = app.request("GET", "/api/v1/budgets", "", token)
	budgets := parseJSON(t, rec)["data"].([]interface{})
	budgetID := budgets[0].(map[string]interface{})["id"].(float64)
	rec = app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f/progress", budgetID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("progress failed: %d %s", rec.Code, rec.Body.String())
	}
	progress := parseJSON(t, rec)["progress"].(map[string]interface{})
	if progress["spent"].(float64) != 54900 {
		t.Errorf("expected spent 54900, got %v", progress["spent"])
	}
	if progress["remaining"].(float64) != -4900 {
		t.Errorf("expected remaining -4900, got %v", progress["remaining"])
	}

	// Mark the alert read and confirm the unread count drops.
	alertID := alert["id"].(float64)
	rec = app.request("POST", fmt.Sprintf("/api/v1/notifications/%.0f/read", alertID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark read failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/notifications?unread_only=true", "", token)
	remaining := parseJSON(t, rec)["data"].([]interface{})
	for _, n := range remaining {
		if n.(map[string]interface{})["id"].(float64) == alertID {
			t.Error("expected alert to leave the unread list after mark read")
		}
	}
}

func TestSMSFlow_MessagesScopedToOwner(t *testing.T) {
	app := setupApp(t)

	tokenA, _, _ := app.registerUser(t, "owner-a@test.com", "password123")
	tokenB, _, _ := app.registerUser(t, "owner-b@test.com", "password123")
	app.linkPhone(t, tokenA, "+919876543210")

	rec := app.webhookRequest(`{"phone_number":"+919876543210","text":"Some unmatched statement text"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("ingest failed: %d %s", rec.Code, rec.Body.String())
	}
	messageID := parseJSON(t, rec)["message"].(map[string]interface{})["id"].(float64)

	// Another user cannot see or classify the message.
	rec = app.request("GET", fmt.Sprintf("/api/v1/sms/%.0f", messageID), "", tokenB)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign message, got %d", rec.Code)
	}
	rec = app.request("POST", fmt.Sprintf("/api/v1/sms/%.0f/classify", messageID),
		`{"category_id":5,"type":"expense","amount":1000}`, tokenB)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 classifying foreign message, got %d", rec.Code)
	}
	rec = app.request("GET", "/api/v1/sms/review", "", tokenB)
	queue := parseJSON(t, rec)
	if len(queue["data"].([]interface{})) != 0 {
		t.Fatal("expected empty review queue for the other user")
	}
}
