package main

import (
	"campuspass.io/infrastructure"
	"campuspass.io/infrastructure/env"
)

func init() {
	env.LoadEnv()
}

func main() {
	infrastructure.StartServer()
}
