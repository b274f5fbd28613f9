// cmd/main.go
package main

import (
	"go-shop-api/app"
)

// @title           Go-Shop API
// @version         1.0
// @description     Storefront API with OTP-verified registration and rotating token sessions.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
