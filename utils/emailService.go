package utils

import (
	"fmt"
	"html"

	"github.com/shopspring/decimal"
)

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B1035; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B1035; line-height: 1.6; }
			.code { text-align: center; color: #7B2FF7; font-size: 40px; margin: 20px 0; letter-spacing: 6px; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>LEVELUP</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">LevelUp, la casa de los creadores independientes.</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(title), bodyContent)
}

// SendPasswordResetEmail mails a reset code; it blocks until the provider answers.
func SendPasswordResetEmail(m Mailer, email, username, code string) error {
	body := fmt.Sprintf(`
		<p>Hola %s,</p>
		<p>Usa este código para restablecer tu contraseña. Vence en 15 minutos.</p>
		<div class="code">%s</div>
		<p>Si no solicitaste el cambio, ignora este mensaje.</p>
	`, html.EscapeString(username), code)

	return m.Send([]string{email}, "Código para restablecer tu contraseña", getEmailTemplate("Restablecer contraseña", body))
}

// ProgressPostEmail builds the subject and body for a creator progress post
func ProgressPostEmail(creatorName, title, content, imageURL string) (string, string) {
	body := fmt.Sprintf(`
		<p><strong>%s</strong> publicó un nuevo avance:</p>
		<p>%s</p>
	`, html.EscapeString(creatorName), html.EscapeString(content))
	if imageURL != "" {
		body += fmt.Sprintf(`<p><img src="%s" alt="avance" style="max-width:100%%"></p>`, html.EscapeString(imageURL))
	}
	return "[AVANCE DE CREADOR] " + title, getEmailTemplate(title, body)
}

// SendProgressPostEmail broadcasts a creator progress post to recipients
func SendProgressPostEmail(m Mailer, recipients []string, creatorName, title, content, imageURL string) {
	if len(recipients) == 0 {
		return
	}
	subject, body := ProgressPostEmail(creatorName, title, content, imageURL)
	go func() {
		if err := m.Send(recipients, subject, body); err != nil {
			Log.Error().Err(err).Str("title", title).Msg("progress post email failed")
		}
	}()
}

// SendDonationReceivedEmail tells a creator an approved donation arrived
func SendDonationReceivedEmail(m Mailer, email, creatorName string, amount decimal.Decimal, reference string) {
	body := fmt.Sprintf(`
		<p>Hola %s,</p>
		<p>Recibiste una donación de <strong>%s</strong>.</p>
		<p>Referencia: %s</p>
	`, html.EscapeString(creatorName), FormatCOP(amount), html.EscapeString(reference))

	go func() {
		if err := m.Send([]string{email}, "¡Recibiste una donación!", getEmailTemplate("Nueva donación", body)); err != nil {
			Log.Error().Err(err).Str("reference", reference).Msg("donation email failed")
		}
	}()
}
