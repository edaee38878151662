package main

import (
	"context"
	"testing"
)

func TestEnsureSchema(t *testing.T) {
	db := openTestDB(t)

	if err := ensureSchema(db); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO user (username, password) VALUES ('u', 'h')`); err != nil {
		t.Fatalf("Expected user table to exist: %v", err)
	}

	// A second run must leave existing data alone.
	if err := ensureSchema(db); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM user`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Expected 1 user after second ensureSchema, got %d", n)
	}
}

func TestInitDBIsDestructive(t *testing.T) {
	db := openTestDB(t)

	if err := initDB(db); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO user (username, password) VALUES ('u', 'h')`); err != nil {
		t.Fatal(err)
	}

	if err := initDB(db); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM user`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Expected empty user table after init, got %d rows", n)
	}
}

// The request-scoped accessor hands out the same connection on repeated use.
func TestRequestConnReuse(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	rc := &requestConn{db: db}
	defer rc.close()

	c1, err := rc.get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := rc.get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c1 != c2 {
		t.Error("Expected the same connection within one request")
	}
}
