package main

import "github.com/talx-hub/gopher-rewards/internal/service"

func main() {
	service.RunServer()
}
