package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"expensetracker/internal/models"
	"expensetracker/internal/services"
)

func TestUserFlow(t *testing.T) {
	app := setupApp(t)

	id := app.createUser(t, "  Alice  ", "Alice@Example.com", 1500)

	t.Run("stored normalized", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/users/"+id, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["name"] != "Alice" || user["email"] != "alice@example.com" {
			t.Errorf("unexpected user %v", user)
		}
	})

	t.Run("duplicate email in any case", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/users", `{"name":"Bob","email":"ALICE@example.com ","monthly_budget":10}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
		if code := errorCode(t, rec); code != "DUPLICATE_EMAIL" {
			t.Errorf("expected DUPLICATE_EMAIL, got %s", code)
		}
	})

	t.Run("all field errors reported together", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/users", `{"name":"A","email":"not-an-email","monthly_budget":-1}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		msg := parseJSON(t, rec)["error"].(map[string]interface{})["message"].(string)
		for _, field := range []string{"name", "email", "monthly_budget"} {
			if !strings.Contains(msg, field) {
				t.Errorf("expected %q in message %q", field, msg)
			}
		}
	})

	t.Run("update", func(t *testing.T) {
		rec := app.request("PUT", "/api/v1/users/"+id, `{"monthly_budget":2000}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["monthly_budget"].(float64) != 2000 || user["name"] != "Alice" {
			t.Errorf("unexpected user %v", user)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/users/123", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/users/01890a5d-ac96-774b-bcce-b302099a8057", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "USER_NOT_FOUND" {
			t.Errorf("expected USER_NOT_FOUND, got %s", code)
		}
	})
}

func TestListUsersPagination(t *testing.T) {
	app := setupApp(t)

	for i := 0; i < 12; i++ {
		app.createUser(t, fmt.Sprintf("User %02d", i), fmt.Sprintf("u%d@example.com", i), 100)
	}

	rec := app.request("GET", "/api/v1/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	meta := result["pagination"].(map[string]interface{})
	if meta["page"].(float64) != 1 || meta["limit"].(float64) != 10 || meta["total"].(float64) != 12 || meta["pages"].(float64) != 2 {
		t.Errorf("unexpected pagination %v", meta)
	}
	if got := len(result["data"].([]interface{})); got != 10 {
		t.Errorf("expected 10 users on page 1, got %d", got)
	}

	rec = app.request("GET", "/api/v1/users?page=2&limit=10", "")
	if got := len(parseJSON(t, rec)["data"].([]interface{})); got != 2 {
		t.Errorf("expected 2 users on page 2, got %d", got)
	}

	rec = app.request("GET", "/api/v1/users?page=-4&limit=1000", "")
	meta = parseJSON(t, rec)["pagination"].(map[string]interface{})
	if meta["page"].(float64) != 1 || meta["limit"].(float64) != 100 {
		t.Errorf("expected clamped page=1 limit=100, got %v", meta)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	app := setupApp(t)

	keep := app.createUser(t, "Keeper", "keep@example.com", 100)
	gone := app.createUser(t, "Leaver", "leave@example.com", 100)

	var goneExpenses []string
	for i := 0; i < 3; i++ {
		goneExpenses = append(goneExpenses, app.createExpense(t, gone, fmt.Sprintf("Gone %d", i), 5, "Food"))
	}
	kept := app.createExpense(t, keep, "Kept", 5, "Food")

	rec := app.request("DELETE", "/api/v1/users/"+gone, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	for _, id := range goneExpenses {
		if rec := app.request("GET", "/api/v1/expenses/"+id, ""); rec.Code != http.StatusNotFound {
			t.Errorf("expected expense %s to be gone, got %d", id, rec.Code)
		}
	}
	if rec := app.request("GET", "/api/v1/expenses/"+kept, ""); rec.Code != http.StatusOK {
		t.Errorf("expected other user's expense to survive, got %d", rec.Code)
	}
	if rec := app.request("GET", "/api/v1/users/"+gone, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected user to be gone, got %d", rec.Code)
	}

	rec = app.request("DELETE", "/api/v1/users/"+gone, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestWritesAreAudited(t *testing.T) {
	app := setupApp(t)

	userID := app.createUser(t, "Audited", "audited@example.com", 100)
	expenseID := app.createExpense(t, userID, "Lunch", 12, "Food")

	rec := app.request("DELETE", "/api/v1/users/"+userID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	deleteRequestID := rec.Header().Get("X-Request-ID")

	var entries []models.AuditLog
	if err := app.DB.Order("created_at ASC").Order("id ASC").Find(&entries).Error; err != nil {
		t.Fatalf("failed to read audit log: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(entries))
	}

	want := []struct{ action, resourceID string }{
		{services.ActionCreateUser, userID},
		{services.ActionCreateExpense, expenseID},
		{services.ActionDeleteUser, userID},
	}
	for i, w := range want {
		if entries[i].Action != w.action || entries[i].ResourceID != w.resourceID {
			t.Errorf("entry %d: expected %s on %s, got %s on %s", i, w.action, w.resourceID, entries[i].Action, entries[i].ResourceID)
		}
		if entries[i].RequestID == "" {
			t.Errorf("entry %d: expected a request id", i)
		}
	}
	if entries[2].RequestID != deleteRequestID {
		t.Errorf("expected delete entry to carry request id %s, got %s", deleteRequestID, entries[2].RequestID)
	}
	if !strings.Contains(entries[2].Changes, `"expenses_deleted":1`) {
		t.Errorf("expected cascade count in changes, got %s", entries[2].Changes)
	}
}
