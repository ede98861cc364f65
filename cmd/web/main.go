package main

import "cargolink_backend/internal/app"

func main() {
	app.Run()
}
