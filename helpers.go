package main

import (
	"html/template"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// --- Session helpers ---

func (app *App) addFlash(w http.ResponseWriter, r *http.Request, message string) {
	session, _ := app.store.Get(r, sessionName)
	session.AddFlash(message)
	session.Save(r, w)
}

func (app *App) flashes(w http.ResponseWriter, r *http.Request) []interface{} {
	session, _ := app.store.Get(r, sessionName)
	flashes := session.Flashes()
	session.Save(r, w)
	return flashes
}

// currentUser returns the user loaded by the loadCurrentUser middleware,
// or nil for anonymous requests.
func currentUser(r *http.Request) *User {
	u, _ := r.Context().Value(userKey).(*User)
	return u
}

// --- Password helpers ---

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// --- Template helpers ---

func datetimeformat(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

func (app *App) render(w http.ResponseWriter, r *http.Request, templateFile string, data map[string]interface{}) {
	funcMap := template.FuncMap{
		"datetimeformat": datetimeformat,
	}

	tmpl := template.Must(template.New("layout.html").
		Funcs(funcMap).
		ParseFiles("templates/layout.html", "templates/"+templateFile))

	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["CurrentUser"]; !ok {
		data["CurrentUser"] = currentUser(r)
	}
	if _, ok := data["Flashes"]; !ok {
		data["Flashes"] = app.flashes(w, r)
	}

	tmpl.ExecuteTemplate(w, "layout.html", data)
}
