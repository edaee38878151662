package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mattn/go-sqlite3"
)

var (
	errPostNotFound = errors.New("post not found")
	errForbidden    = errors.New("not the author")
)

// GET / — all posts, newest first
func (app *App) index(w http.ResponseWriter, r *http.Request) {
	conn, err := app.conn(r.Context())
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	rows, err := conn.QueryContext(r.Context(), `
		SELECT p.id, title, body, created, author_id, username
		FROM post p JOIN user u ON p.author_id = u.id
		ORDER BY created DESC`)
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.Created, &p.AuthorID, &p.Username); err != nil {
			http.Error(w, "Scan error", http.StatusInternalServerError)
			return
		}
		posts = append(posts, p)
	}

	app.render(w, r, "index.html", map[string]interface{}{
		"Posts": posts,
	})
}

// GET + POST /register
func (app *App) register(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if r.Method == http.MethodPost {
		username := r.FormValue("username")
		password := r.FormValue("password")

		errorMsg := ""
		switch {
		case username == "":
			errorMsg = "Username is required."
		case password == "":
			errorMsg = "Password is required."
		}

		if errorMsg == "" {
			hash, err := hashPassword(password)
			if err != nil {
				http.Error(w, "hash error", http.StatusInternalServerError)
				return
			}

			conn, err := app.conn(r.Context())
			if err != nil {
				http.Error(w, "DB error", http.StatusInternalServerError)
				return
			}
			_, err = conn.ExecContext(r.Context(),
				`INSERT INTO user (username, password) VALUES (?, ?)`, username, hash)
			if err == nil {
				app.addFlash(w, r, "You were successfully registered and can now log in.")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			var sqlErr sqlite3.Error
			if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique {
				errorMsg = fmt.Sprintf("User %s is already registered.", username)
			} else {
				http.Error(w, "DB error", http.StatusInternalServerError)
				return
			}
		}
		app.addFlash(w, r, errorMsg)
	}

	app.render(w, r, "register.html", nil)
}

// GET + POST /login
func (app *App) login(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if r.Method == http.MethodPost {
		username := r.FormValue("username")
		password := r.FormValue("password")

		errorMsg := ""
		u := app.getUserByName(r.Context(), username)
		if u == nil {
			errorMsg = "Incorrect username."
		} else if !checkPassword(u.Password, password) {
			errorMsg = "Incorrect password."
		} else {
			session, _ := app.store.Get(r, sessionName)
			session.Values["user_id"] = u.ID
			session.Save(r, w)
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		app.addFlash(w, r, errorMsg)
	}

	app.render(w, r, "login.html", nil)
}

// POST /logout
func (app *App) logout(w http.ResponseWriter, r *http.Request) {
	session, _ := app.store.Get(r, sessionName)
	delete(session.Values, "user_id")
	session.AddFlash("You were logged out.")
	session.Save(r, w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// GET + POST /create
func (app *App) createPost(w http.ResponseWriter, r *http.Request) {
	var title, body string
	if r.Method == http.MethodPost {
		title = r.FormValue("title")
		body = r.FormValue("body")

		errorMsg := ""
		switch {
		case title == "":
			errorMsg = "Title is required."
		case body == "":
			errorMsg = "Body is required."
		}

		if errorMsg == "" {
			conn, err := app.conn(r.Context())
			if err != nil {
				http.Error(w, "DB error", http.StatusInternalServerError)
				return
			}
			_, err = conn.ExecContext(r.Context(),
				`INSERT INTO post (title, body, author_id) VALUES (?, ?, ?)`,
				title, body, currentUser(r).ID)
			if err != nil {
				http.Error(w, "DB error", http.StatusInternalServerError)
				return
			}
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		app.addFlash(w, r, errorMsg)
	}

	app.render(w, r, "create.html", map[string]interface{}{
		"Title": title,
		"Body":  body,
	})
}

// getPost loads a post by id with the author's username joined in. With
// checkAuthor set it also requires the current user to be the author.
func (app *App) getPost(r *http.Request, id int64, checkAuthor bool) (*Post, error) {
	conn, err := app.conn(r.Context())
	if err != nil {
		return nil, err
	}

	var p Post
	err = conn.QueryRowContext(r.Context(), `
		SELECT p.id, title, body, created, author_id, username
		FROM post p JOIN user u ON p.author_id = u.id
		WHERE p.id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Body, &p.Created, &p.AuthorID, &p.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errPostNotFound
	}
	if err != nil {
		return nil, err
	}

	if checkAuthor {
		u := currentUser(r)
		if u == nil || p.AuthorID != u.ID {
			return nil, errForbidden
		}
	}
	return &p, nil
}

func servePostError(w http.ResponseWriter, id int64, err error) {
	switch {
	case errors.Is(err, errPostNotFound):
		http.Error(w, fmt.Sprintf("Post id %d doesn't exist.", id), http.StatusNotFound)
	case errors.Is(err, errForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "DB error", http.StatusInternalServerError)
	}
}

func postID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// GET + POST /{id}/update
func (app *App) updatePost(w http.ResponseWriter, r *http.Request) {
	id := postID(r)
	post, err := app.getPost(r, id, true)
	if err != nil {
		servePostError(w, id, err)
		return
	}

	if r.Method == http.MethodPost {
		title := r.FormValue("title")
		body := r.FormValue("body")

		errorMsg := ""
		switch {
		case title == "":
			errorMsg = "Title is required."
		case body == "":
			errorMsg = "Body is required."
		}

		if errorMsg == "" {
			conn, err := app.conn(r.Context())
			if err != nil {
				http.Error(w, "DB error", http.StatusInternalServerError)
				return
			}
			_, err = conn.ExecContext(r.Context(),
				`UPDATE post SET title = ?, body = ? WHERE id = ?`, title, body, id)
			if err != nil {
				http.Error(w, "DB error", http.StatusInternalServerError)
				return
			}
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		app.addFlash(w, r, errorMsg)
	}

	app.render(w, r, "update.html", map[string]interface{}{
		"Post": post,
	})
}

// POST /{id}/delete
func (app *App) deletePost(w http.ResponseWriter, r *http.Request) {
	id := postID(r)
	if _, err := app.getPost(r, id, true); err != nil {
		servePostError(w, id, err)
		return
	}

	conn, err := app.conn(r.Context())
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if _, err := conn.ExecContext(r.Context(), `DELETE FROM post WHERE id = ?`, id); err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
