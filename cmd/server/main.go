package main

import "handwerk-hero/go_backend/internal/app"

func main() {
	app.Run()
}
