package main

import (
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

var server srv

func main() {
	server.loadApp()
	if err := server.app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}
