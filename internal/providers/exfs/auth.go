// This file implements ExFS authentication. There is no session-token
// store: the user exists exactly while the four DLE cookies are
// simultaneously present, non-empty and unexpired on the active mirror.

package exfs

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/fsclient/fsclient-go/internal/models"
)

// The cookie quadruple whose simultaneous validity defines the
// logged-in state. The jar drops expired cookies on read, so presence
// plus a non-empty value is the whole invariant.
const (
	cookieUserID   = "dle_user_id"
	cookiePassword = "dle_password"
	cookieNewPM    = "dle_newpm"
	cookieLogin    = "loginname"
)

var authCookies = []string{cookieUserID, cookiePassword, cookieNewPM, cookieLogin}

// AuthModels reports that ExFS authenticates through its login form.
func (p *Provider) AuthModels() []models.AuthModel {
	return []models.AuthModel{models.AuthModelForm}
}

// User derives the current user from the cookie jar, or nil when the
// cookie set is not intact.
func (p *Provider) User(ctx context.Context) *models.User {
	base, err := p.Mirror(ctx)
	if err != nil {
		return nil
	}

	values := make(map[string]string, len(authCookies))
	for _, name := range authCookies {
		ck, ok := p.client.Cookie(base, name)
		if !ok || ck.Value == "" {
			return nil
		}
		values[name] = ck.Value
	}

	return &models.User{
		Site:     Site,
		Nickname: values[cookieLogin],
	}
}

// Authorize drives the credential-form flow. ExFS has no OAuth dialog.
func (p *Provider) Authorize(ctx context.Context, model models.AuthModel, creds models.LoginCredentials) models.AuthResult {
	if model != models.AuthModelForm {
		return models.AuthResult{Outcome: models.OutcomeNotSupported}
	}
	base, err := p.Mirror(ctx)
	if err != nil {
		return models.AuthResult{Outcome: models.OutcomeFailed, Reason: err.Error()}
	}

	_, err = p.get(base, "/").
		WithMethod(http.MethodPost).
		WithForm("login_name", creds.Login).
		WithForm("login_password", creds.Password).
		WithForm("login", "submit").
		Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return models.AuthResult{Outcome: models.OutcomeCanceled}
		}
		return models.AuthResult{Outcome: models.OutcomeFailed, Reason: err.Error()}
	}

	// Success is judged by the invariant, not the response body: the
	// form round-trip either planted the full cookie set or it did not.
	if user := p.User(ctx); user != nil {
		logrus.WithField("site", Site).Infof("logged in as %s", user.Nickname)
		return models.AuthResult{Outcome: models.OutcomeSuccess, User: user}
	}
	return models.AuthResult{Outcome: models.OutcomeFailed, Reason: "login rejected"}
}

// Logout tells the site goodbye and drops the cookie quadruple either
// way.
func (p *Provider) Logout(ctx context.Context) error {
	base, err := p.Mirror(ctx)
	if err != nil {
		return err
	}
	if _, err := p.get(base, "/index.php").WithQuery("action", "logout").Do(ctx); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	p.client.ClearCookies(base, authCookies...)
	return nil
}
