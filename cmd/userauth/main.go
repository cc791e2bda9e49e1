// Command userauth runs the user registration and login API and its
// maintenance tasks.
//
// @title                       User Auth API
// @version                     1.0
// @description                 User registration, login and role-based user management with JWT access tokens.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
