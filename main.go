/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/lingloop/player-api/cmd"

// @title           Lingloop Player API
// @version         1.0.0
// @description     Sentence-synchronized loop playback for language study, with project and media management
// @contact.name    API Support
// @contact.url     https://github.com/lingloop/player-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http
func main() {
	cmd.Execute()
}
