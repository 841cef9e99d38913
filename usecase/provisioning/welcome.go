package provisioning

import (
	"html/template"
	"strings"

	"github.com/halahlab/backend/usecase"
)

const welcomeSubject = "Welcome Halah Laboratories"

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<html>
  <body>
    <h2>Hi {{.Name}}, welcome to Halah Laboratories</h2>
    <p>Your account is ready. Sign in with the credentials below and change
    your password after the first login.</p>
    <ul>
      <li>Username: <strong>{{.Username}}</strong></li>
      <li>Password: <strong>{{.Secret}}</strong></li>
    </ul>
  </body>
</html>`))

// WelcomeNotification renders the welcome email carrying the freshly
// issued credentials. This is the only place the plaintext secret
// leaves the provisioning flow.
func WelcomeNotification(to, name, username, secret string) usecase.Notification {
	var body strings.Builder
	_ = welcomeTmpl.Execute(&body, struct {
		Name, Username, Secret string
	}{Name: name, Username: username, Secret: secret})

	return usecase.Notification{
		To:      to,
		Subject: welcomeSubject,
		HTML:    body.String(),
	}
}
