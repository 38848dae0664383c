package main

import "prowork_backend/internal/app"

func main() {
	app.Run()
}
