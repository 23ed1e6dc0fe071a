package modem

import "fmt"

const (
	configForm = `<!DOCTYPE html><html><head><title>Wi-Fi Config</title></head><body>` +
		`<form method="GET" action="/" accept-charset="utf-8">` +
		`SSID: <input type="text" name="ssid"><br>` +
		`Password: <input type="text" name="password"><br>` +
		`<input type="submit" value="Submit"></form></body></html>`

	helloBody = `<html><body><h1>Hello, World!</h1></body></html>`
)

var (
	// ConfigPage serves the Wi-Fi configuration form.
	ConfigPage = htmlResponse(configForm)
	// HelloPage is the plain page served to ordinary requests.
	HelloPage = htmlResponse(helloBody)
)

func htmlResponse(body string) string {
	return fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: %d\r\n\r\n%s\r\n", len(body), body)
}
