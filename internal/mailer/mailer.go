// Package mailer envoie le code OTP par SMTP. L'envoi serveur est un
// confort : le code est de toute façon retourné à l'appelant, la remise
// principale est pilotée par le client.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"time"
)

type SMTP struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

// New renvoie nil si aucun hôte SMTP n'est configuré : le service d'auth
// accepte un mailer nil.
func New(host, port, user, password, from string) *SMTP {
	if host == "" {
		return nil
	}
	return &SMTP{host: host, port: port, user: user, password: password, from: from}
}

func (m *SMTP) EnvoyerOTP(_ context.Context, email, code string, ttl time.Duration) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Votre code de vérification FPBG\r\n\r\n"+
		"Votre code de vérification est : %s\r\nIl expire dans %d minutes.\r\n",
		m.from, email, code, int(ttl.Minutes()))
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{email}, []byte(msg))
}
