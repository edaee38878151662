package main

import "time"

// User represents a registered user.
type User struct {
	ID       int64
	Username string
	Password string // bcrypt hash
}

// Post represents a blog post joined with its author's username.
type Post struct {
	ID       int64
	AuthorID int64
	Created  time.Time
	Title    string
	Body     string
	Username string
}
