// @title        HanceAI API
// @version      1.0
// @description  Chat backend proxying messages to a hosted inference provider, with account auth and in-flight request cancellation.
// @BasePath     /api
// @schemes      http
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"os"

	"github.com/Janriisasi/hanceai/internal/app"
)

func main() {
	os.Exit(app.Run())
}
