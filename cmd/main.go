package main

import (
	"bankdash-api/app"
)

func main() {
	app.Run()
}
