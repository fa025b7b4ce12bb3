package main

import (
	"kidbank/app"
)

func main() {
	app.Run()
}
