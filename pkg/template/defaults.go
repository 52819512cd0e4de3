package template

type defaultKey struct {
	Channel     string
	Name        string
	ContentType string
}

// Built-in fallbacks for the domain lifecycle notifications. Tenants can
// override any of these through the templates API.
var defaults = map[defaultKey]string{
	{"email", "domain.activated", "text"}: "¡Felicidades! Tu tienda {{.StoreName}} ya está disponible en https://{{.Domain}}.\n\nEquipo Toogo",
	{"email", "domain.activated", "html"}: "<h2>¡Tu tienda ya está en línea!</h2><p>{{.StoreName}} ya está disponible en <a href=\"https://{{.Domain}}\">{{.Domain}}</a>.</p><p>Equipo Toogo</p>",
	{"email", "domain.activation_failed", "text"}: "Tuvimos un problema activando el dominio {{.Domain}}. Nuestro equipo ya está revisándolo.\n\nEquipo Toogo",
	{"email", "domain.activation_failed", "html"}: "<h2>Problema activando tu dominio</h2><p>Tuvimos un problema activando <strong>{{.Domain}}</strong>. Nuestro equipo ya está revisándolo; no necesitas hacer nada.</p><p>Equipo Toogo</p>",
	{"sms", "domain.activated", "text"}:           "Toogo: tu tienda {{.StoreName}} ya está en línea en {{.Domain}}",
}
