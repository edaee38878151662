package main

import (
	"strings"
	"testing"
)

func TestRegister(t *testing.T) {
	ts, client, _ := setupTestServer(t)

	// Successful registration
	body := register(t, ts, client, "user1", "default")
	if !strings.Contains(body, "You were successfully registered and can now log in.") {
		t.Error("Expected successful registration message")
	}

	// Duplicate username
	body = register(t, ts, client, "user1", "default")
	if !strings.Contains(body, "User user1 is already registered.") {
		t.Error("Expected 'already registered' message")
	}

	// Empty username
	body = register(t, ts, client, "", "default")
	if !strings.Contains(body, "Username is required.") {
		t.Error("Expected 'Username is required.' message")
	}

	// Empty password
	body = register(t, ts, client, "meh", "")
	if !strings.Contains(body, "Password is required.") {
		t.Error("Expected 'Password is required.' message")
	}
}

func TestLoginLogout(t *testing.T) {
	ts, client, _ := setupTestServer(t)

	body := registerAndLogin(t, ts, client, "user1", "default")
	if !strings.Contains(body, "Log Out") {
		t.Error("Expected logged-in navigation after login")
	}
	if !strings.Contains(body, "user1") {
		t.Error("Expected username in navigation")
	}

	body = doLogout(t, ts, client)
	if !strings.Contains(body, "You were logged out.") {
		t.Error("Expected logout message")
	}
	if strings.Contains(body, "Log Out") {
		t.Error("Expected anonymous navigation after logout")
	}

	// Wrong password
	body = login(t, ts, client, "user1", "wrongpassword")
	if !strings.Contains(body, "Incorrect password.") {
		t.Error("Expected 'Incorrect password.' message")
	}

	// Unknown username
	body = login(t, ts, client, "user2", "default")
	if !strings.Contains(body, "Incorrect username.") {
		t.Error("Expected 'Incorrect username.' message")
	}
}

// A session whose user row has been deleted behaves like no session at all.
func TestStaleSessionIsAnonymous(t *testing.T) {
	ts, client, db := setupTestServer(t)

	registerAndLogin(t, ts, client, "ghost", "default")
	if _, err := db.Exec(`DELETE FROM user WHERE username = 'ghost'`); err != nil {
		t.Fatal(err)
	}

	_, body := get(t, ts, client, "/")
	if strings.Contains(body, "Log Out") {
		t.Error("Expected anonymous navigation for stale session")
	}

	resp, _ := get(t, ts, client, "/create")
	if resp.Request.URL.Path != "/login" {
		t.Errorf("Expected guard redirect to /login, landed on %s", resp.Request.URL.Path)
	}
}
