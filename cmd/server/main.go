package main

import (
	"fmt"
	"os"

	"luxera/internal/app"
)

// @title           Luxera Account API
// @version         1.0
// @description     Accounts, login and OTP password reset.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
