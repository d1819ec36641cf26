package views

import (
	"bytes"
	"html/template"

	"levelup/services/payments"

	"github.com/gofiber/fiber/v2"
)

var checkoutTmpl = template.Must(template.New("checkout").Parse(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>LevelUp - Donación</title></head>
<body>
{{if .Error}}
	<h2>Error al iniciar el pago</h2>
	<p class="error">{{.Error}}</p>
	<a href="/donaciones">Volver</a>
{{else}}
	<p>Redirigiendo a Wompi...</p>
	<form id="wompi-checkout" action="{{.Action}}" method="GET">
	{{range .Fields}}	<input type="hidden" name="{{.Name}}" value="{{.Value}}">
	{{end}}	<noscript><button type="submit">Continuar al pago</button></noscript>
	</form>
	<script>document.getElementById("wompi-checkout").submit();</script>
{{end}}
</body>
</html>
`))

var returnTmpl = template.Must(template.New("return").Parse(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>LevelUp - Resultado de la donación</title></head>
<body>
	<div class="outcome {{.Kind}}">
		<p>{{.Message}}</p>
		<p>Estado: {{.Status}}</p>
		<p>Transacción: {{.TransactionID}}</p>
	</div>
	<a href="/">Volver al inicio</a>
</body>
</html>
`))

type checkoutPage struct {
	Action string
	Fields []payments.FormField
	Error  string
}

// Checkout renders the auto-submitting Wompi web checkout form
func Checkout(c *fiber.Ctx, action string, checkout *payments.Checkout) error {
	return render(c, fiber.StatusOK, checkoutTmpl, checkoutPage{Action: action, Fields: checkout.FormFields()})
}

// CheckoutError renders the checkout page with a failure message instead of a form
func CheckoutError(c *fiber.Ctx, status int, message string) error {
	return render(c, status, checkoutTmpl, checkoutPage{Error: message})
}

// Return renders the page the gateway redirects donors to
func Return(c *fiber.Ctx, out payments.ReturnOutcome) error {
	return render(c, fiber.StatusOK, returnTmpl, out)
}

func render(c *fiber.Ctx, status int, tmpl *template.Template, data interface{}) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
