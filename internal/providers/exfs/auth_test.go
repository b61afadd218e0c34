package exfs

import (
	"net/http"
	"testing"

	"github.com/fsclient/fsclient-go/internal/models"
)

// plantAuthCookies makes the handler respond like a DLE site accepting
// the login form.
func plantAuthCookies(w http.ResponseWriter, nickname string) {
	for _, ck := range []http.Cookie{
		{Name: "dle_user_id", Value: "7"},
		{Name: "dle_password", Value: "hash"},
		{Name: "dle_newpm", Value: "0"},
		{Name: "loginname", Value: nickname},
	} {
		ck.Path = "/"
		http.SetCookie(w, &ck)
	}
}

func TestAuthorize_Success(t *testing.T) {
	var form map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			return // mirror probe
		}
		form = map[string]string{
			"login_name":     r.FormValue("login_name"),
			"login_password": r.FormValue("login_password"),
			"login":          r.FormValue("login"),
		}
		plantAuthCookies(w, r.FormValue("login_name"))
	})

	p, _ := newTestProvider(t, mux)

	if user := p.User(t.Context()); user != nil {
		t.Fatalf("user before login = %v", user)
	}

	result := p.Authorize(t.Context(), models.AuthModelForm, models.LoginCredentials{
		Login:    "alice",
		Password: "s3cret",
	})
	if result.Outcome != models.OutcomeSuccess {
		t.Fatalf("outcome = %v (%s)", result.Outcome, result.Reason)
	}
	if result.User == nil || result.User.Nickname != "alice" {
		t.Fatalf("user = %v", result.User)
	}
	if form["login_name"] != "alice" || form["login_password"] != "s3cret" || form["login"] != "submit" {
		t.Errorf("login form = %v", form)
	}

	if user := p.User(t.Context()); user == nil || user.Nickname != "alice" {
		t.Errorf("user after login = %v", user)
	}
}

func TestAuthorize_RejectedWhenCookiesIncomplete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			return
		}
		// A rejected login keeps the session anonymous: only a partial
		// cookie set comes back.
		http.SetCookie(w, &http.Cookie{Name: "dle_user_id", Value: "7", Path: "/"})
	})

	p, _ := newTestProvider(t, mux)

	result := p.Authorize(t.Context(), models.AuthModelForm, models.LoginCredentials{
		Login:    "alice",
		Password: "wrong",
	})
	if result.Outcome != models.OutcomeFailed {
		t.Fatalf("outcome = %v", result.Outcome)
	}
	if p.User(t.Context()) != nil {
		t.Error("partial cookie set must not produce a user")
	}
}

func TestAuthorize_UnsupportedModel(t *testing.T) {
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	result := p.Authorize(t.Context(), models.AuthModelOAuth, models.LoginCredentials{})
	if result.Outcome != models.OutcomeNotSupported {
		t.Fatalf("outcome = %v", result.Outcome)
	}
}

func TestLogout(t *testing.T) {
	var loggedOut bool
	mux := http.NewServeMux()
	mux.HandleFunc("/index.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "logout" {
			loggedOut = true
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			plantAuthCookies(w, "alice")
		}
	})

	p, _ := newTestProvider(t, mux)

	result := p.Authorize(t.Context(), models.AuthModelForm, models.LoginCredentials{Login: "alice", Password: "pw"})
	if result.Outcome != models.OutcomeSuccess {
		t.Fatalf("login failed: %v", result.Outcome)
	}

	if err := p.Logout(t.Context()); err != nil {
		t.Fatal(err)
	}
	if !loggedOut {
		t.Error("logout endpoint not called")
	}
	if p.User(t.Context()) != nil {
		t.Error("user survived logout")
	}
}
